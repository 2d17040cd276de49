package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/safetrack/ppeorder/internal/domain/errors"
	"github.com/safetrack/ppeorder/internal/domain/model"
	"github.com/safetrack/ppeorder/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage depends on; tests
// substitute a pgxmock pool through it.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL. It is the
// single persistence backend of the service: one store, one schema.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type catalogRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type sessionRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Catalog() repository.CatalogRepository {
	return &catalogRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Sessions() repository.SessionRepository {
	return &sessionRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            team TEXT NOT NULL DEFAULT '',
            is_staff BOOLEAN NOT NULL DEFAULT FALSE,
            is_admin BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS catalog_items (
            reference TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            category TEXT NOT NULL,
            price NUMERIC(12,2) NOT NULL,
            unit TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS carts (
            user_id BIGINT PRIMARY KEY REFERENCES users(id),
            lines JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            team TEXT NOT NULL DEFAULT '',
            lines JSONB NOT NULL,
            total NUMERIC(12,2) NOT NULL,
            status TEXT NOT NULL,
            handled_by TEXT NOT NULL DEFAULT '',
            handled_at TIMESTAMPTZ,
            comment TEXT NOT NULL DEFAULT '',
            promised_at TIMESTAMPTZ,
            priority TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_comments (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            author TEXT NOT NULL,
            body TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS sessions (
            token TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash, team string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, team) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, team).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Team = team
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, team, is_staff, is_admin, created_at FROM users WHERE login=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, team, is_staff, is_admin, created_at FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Team, &u.IsStaff, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- CatalogRepository implementation ---

func (r *catalogRepository) UpsertBatch(ctx context.Context, items []model.CatalogItem) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `INSERT INTO catalog_items (reference, name, category, price, unit)
                       VALUES ($1, $2, $3, $4, $5)
                       ON CONFLICT (reference) DO UPDATE
                       SET name = EXCLUDED.name,
                           category = EXCLUDED.category,
                           price = EXCLUDED.price,
                           unit = EXCLUDED.unit`
		for _, item := range items {
			if _, err := tx.Exec(ctx, query, item.Reference, item.Name, item.Category, item.Price, item.Unit); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *catalogRepository) List(ctx context.Context) ([]model.CatalogItem, error) {
	const query = `SELECT reference, name, category, price, unit FROM catalog_items ORDER BY category, name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CatalogItem
	for rows.Next() {
		var item model.CatalogItem
		if err := rows.Scan(&item.Reference, &item.Name, &item.Category, &item.Price, &item.Unit); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *catalogRepository) GetByReference(ctx context.Context, reference string) (*model.CatalogItem, error) {
	const query = `SELECT reference, name, category, price, unit FROM catalog_items WHERE reference=$1`
	var item model.CatalogItem
	err := r.storage.pool.QueryRow(ctx, query, reference).Scan(&item.Reference, &item.Name, &item.Category, &item.Price, &item.Unit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// --- CartRepository implementation ---

func (r *cartRepository) Get(ctx context.Context, userID int64) ([]model.CartLine, error) {
	const query = `SELECT lines FROM carts WHERE user_id=$1`
	var raw []byte
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var lines []model.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return lines, nil
}

// Save overwrites the snapshot unconditionally: last write wins, there
// is no version token and no conflict detection between sessions.
func (r *cartRepository) Save(ctx context.Context, userID int64, lines []model.CartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}

	const query = `INSERT INTO carts (user_id, lines, updated_at)
                   VALUES ($1, $2, NOW())
                   ON CONFLICT (user_id) DO UPDATE
                   SET lines = EXCLUDED.lines, updated_at = NOW()`
	_, err = r.storage.pool.Exec(ctx, query, userID, raw)
	return err
}

func (r *cartRepository) Delete(ctx context.Context, userID int64) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM carts WHERE user_id=$1`, userID)
	return err
}

// --- OrderRepository implementation ---

const orderColumns = `id, user_id, team, lines, total, status, handled_by, handled_at, comment, promised_at, priority, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	raw, err := json.Marshal(order.Lines)
	if err != nil {
		return nil, fmt.Errorf("encode order snapshot: %w", err)
	}

	const query = `INSERT INTO orders (user_id, team, lines, total, status, priority)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, created_at, updated_at`
	created := *order
	err = r.storage.pool.QueryRow(ctx, query, order.UserID, order.Team, raw, order.Total, order.Status, order.Priority).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// UpdateStatus performs the guarded transition write. The row moves
// only when its current status still equals the expected one; a missed
// guard is resolved to NotFound or TransitionError by re-reading.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus, actor, comment string, promisedAt *time.Time) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `UPDATE orders
                       SET status=$1,
                           handled_by=CASE WHEN $2 <> '' THEN $2 ELSE handled_by END,
                           handled_at=CASE WHEN $2 <> '' THEN NOW() ELSE handled_at END,
                           comment=CASE WHEN $3 <> '' THEN $3 ELSE comment END,
                           promised_at=COALESCE($4, promised_at),
                           updated_at=NOW()
                       WHERE id=$5 AND status=$6`
		tag, err := tx.Exec(ctx, query, to, actor, comment, promisedAt, id, from)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return r.resolveGuardFailure(ctx, tx, id, to)
		}

		if comment != "" {
			const insertComment = `INSERT INTO order_comments (order_id, author, body) VALUES ($1, $2, $3)`
			if _, err := tx.Exec(ctx, insertComment, id, actor, comment); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) resolveGuardFailure(ctx context.Context, tx pgx.Tx, id int64, to model.OrderStatus) error {
	var current model.OrderStatus
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return &domainErrors.TransitionError{From: string(current), To: string(to)}
}

// Amend replaces the snapshot and total, and records the justification
// as a comment in the same transaction.
func (r *orderRepository) Amend(ctx context.Context, id int64, lines []model.OrderLine, total decimal.Decimal, justification, author string) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode order snapshot: %w", err)
	}

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `UPDATE orders SET lines=$1, total=$2, updated_at=NOW() WHERE id=$3`
		tag, err := tx.Exec(ctx, query, raw, total, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}

		const insertComment = `INSERT INTO order_comments (order_id, author, body) VALUES ($1, $2, $3)`
		_, err = tx.Exec(ctx, insertComment, id, author, "amended: "+justification)
		return err
	})
}

func (r *orderRepository) ReassignOwner(ctx context.Context, id, newOwnerID int64) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE orders SET user_id=$1, updated_at=NOW() WHERE id=$2`, newOwnerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) ListComments(ctx context.Context, orderID int64) ([]model.OrderComment, error) {
	const query = `SELECT id, order_id, author, body, created_at
                   FROM order_comments WHERE order_id=$1 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderComment
	for rows.Next() {
		var c model.OrderComment
		if err := rows.Scan(&c.ID, &c.OrderID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o   model.Order
		raw []byte
	)
	err := row.Scan(&o.ID, &o.UserID, &o.Team, &raw, &o.Total, &o.Status,
		&o.HandledBy, &o.HandledAt, &o.Comment, &o.PromisedAt, &o.Priority,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &o.Lines); err != nil {
		return nil, fmt.Errorf("decode order snapshot: %w", err)
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- SessionRepository implementation ---

func (r *sessionRepository) Create(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	const query = `INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.storage.pool.Exec(ctx, query, token, userID, expiresAt)
	return err
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	const query = `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token=$1 AND expires_at > NOW()`
	var s model.Session
	err := r.storage.pool.QueryRow(ctx, query, token).Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) Refresh(ctx context.Context, token string, expiresAt time.Time) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE sessions SET expires_at=$1 WHERE token=$2`, expiresAt, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM sessions WHERE token=$1`, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
