package test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/safetrack/ppeorder/internal/domain/errors"
	"github.com/safetrack/ppeorder/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Add seeds a user and returns it.
func (s *UserRepositoryStub) Add(user *model.User) *model.User {
	if user.ID == 0 {
		user.ID = s.Next
		s.Next++
	}
	s.Users[user.Login] = user
	s.ByID[user.ID] = user
	return user
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash, team string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Team: team, CreatedAt: time.Now()}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CatalogRepositoryStub serves items from a map.
type CatalogRepositoryStub struct {
	Items map[string]model.CatalogItem
	Err   error
}

// NewCatalogRepositoryStub constructs the stub with initialized storage.
func NewCatalogRepositoryStub(items ...model.CatalogItem) *CatalogRepositoryStub {
	s := &CatalogRepositoryStub{Items: make(map[string]model.CatalogItem)}
	for _, item := range items {
		s.Items[item.Reference] = item
	}
	return s
}

func (s *CatalogRepositoryStub) UpsertBatch(ctx context.Context, items []model.CatalogItem) error {
	if s.Err != nil {
		return s.Err
	}
	for _, item := range items {
		s.Items[item.Reference] = item
	}
	return nil
}

func (s *CatalogRepositoryStub) List(ctx context.Context) ([]model.CatalogItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.CatalogItem, 0, len(s.Items))
	for _, item := range s.Items {
		result = append(result, item)
	}
	return result, nil
}

func (s *CatalogRepositoryStub) GetByReference(ctx context.Context, reference string) (*model.CatalogItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if item, ok := s.Items[reference]; ok {
		return &item, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CartRepositoryStub keeps one snapshot per user in memory.
type CartRepositoryStub struct {
	Snapshots map[int64][]model.CartLine
	SaveErr   error
	GetErr    error
	Saves     int
}

// NewCartRepositoryStub constructs the stub with initialized storage.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{Snapshots: make(map[int64][]model.CartLine)}
}

func (s *CartRepositoryStub) Get(ctx context.Context, userID int64) ([]model.CartLine, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	lines := s.Snapshots[userID]
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *CartRepositoryStub) Save(ctx context.Context, userID int64, lines []model.CartLine) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	snapshot := make([]model.CartLine, len(lines))
	copy(snapshot, lines)
	s.Snapshots[userID] = snapshot
	s.Saves++
	return nil
}

func (s *CartRepositoryStub) Delete(ctx context.Context, userID int64) error {
	delete(s.Snapshots, userID)
	return nil
}

// OrderRepositoryStub allows tests to customize behaviour while keeping
// a working in-memory default.
type OrderRepositoryStub struct {
	Orders   map[int64]*model.Order
	Comments map[int64][]model.OrderComment
	Next     int64
	Err      error
}

// NewOrderRepositoryStub constructs the stub with initialized storage.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders:   make(map[int64]*model.Order),
		Comments: make(map[int64][]model.OrderComment),
		Next:     1,
	}
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	created := *order
	created.ID = s.Next
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.Next++
	s.Orders[created.ID] = &created
	return &created, nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if order, ok := s.Orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Order
	for _, order := range s.Orders {
		if order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Order
	for _, order := range s.Orders {
		result = append(result, *order)
	}
	return result, nil
}

func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus, actor, comment string, promisedAt *time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Status != from {
		return &domainErrors.TransitionError{From: string(order.Status), To: string(to)}
	}
	order.Status = to
	if actor != "" {
		order.HandledBy = actor
		now := time.Now()
		order.HandledAt = &now
	}
	if comment != "" {
		order.Comment = comment
		s.Comments[id] = append(s.Comments[id], model.OrderComment{OrderID: id, Author: actor, Body: comment, CreatedAt: time.Now()})
	}
	if promisedAt != nil {
		order.PromisedAt = promisedAt
	}
	order.UpdatedAt = time.Now()
	return nil
}

func (s *OrderRepositoryStub) Amend(ctx context.Context, id int64, lines []model.OrderLine, total decimal.Decimal, justification, author string) error {
	if s.Err != nil {
		return s.Err
	}
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.Lines = append([]model.OrderLine(nil), lines...)
	order.Total = total
	order.UpdatedAt = time.Now()
	s.Comments[id] = append(s.Comments[id], model.OrderComment{OrderID: id, Author: author, Body: "amended: " + justification, CreatedAt: time.Now()})
	return nil
}

func (s *OrderRepositoryStub) ReassignOwner(ctx context.Context, id, newOwnerID int64) error {
	if s.Err != nil {
		return s.Err
	}
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.UserID = newOwnerID
	return nil
}

func (s *OrderRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Orders[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Orders, id)
	delete(s.Comments, id)
	return nil
}

func (s *OrderRepositoryStub) ListComments(ctx context.Context, orderID int64) ([]model.OrderComment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.OrderComment(nil), s.Comments[orderID]...), nil
}

// SessionRepositoryStub keeps sessions in memory.
type SessionRepositoryStub struct {
	Sessions map[string]*model.Session
	Err      error
}

// NewSessionRepositoryStub constructs the stub with initialized storage.
func NewSessionRepositoryStub() *SessionRepositoryStub {
	return &SessionRepositoryStub{Sessions: make(map[string]*model.Session)}
}

func (s *SessionRepositoryStub) Create(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	s.Sessions[token] = &model.Session{Token: token, UserID: userID, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	return nil
}

func (s *SessionRepositoryStub) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	session, ok := s.Sessions[token]
	if !ok || session.Expired(time.Now()) {
		return nil, domainErrors.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *SessionRepositoryStub) Refresh(ctx context.Context, token string, expiresAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	session, ok := s.Sessions[token]
	if !ok {
		return domainErrors.ErrNotFound
	}
	session.ExpiresAt = expiresAt
	return nil
}

func (s *SessionRepositoryStub) Delete(ctx context.Context, token string) error {
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Sessions[token]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Sessions, token)
	return nil
}

func (s *SessionRepositoryStub) PurgeExpired(ctx context.Context) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	var purged int64
	now := time.Now()
	for token, session := range s.Sessions {
		if session.Expired(now) {
			delete(s.Sessions, token)
			purged++
		}
	}
	return purged, nil
}
