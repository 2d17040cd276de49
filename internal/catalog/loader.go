package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/safetrack/ppeorder/internal/domain/model"
)

// Loader reads the catalog feed: a five column tabular file
// (reference, name, category or free-text description, price, unit).
// Rows are normalized into model.CatalogItem here and nowhere else.
type Loader struct {
	classifier *Classifier
}

// NewLoader constructs Loader with the given classifier.
func NewLoader(classifier *Classifier) *Loader {
	return &Loader{classifier: classifier}
}

// LoadFile reads and parses the feed file at path.
func (l *Loader) LoadFile(path string) ([]model.CatalogItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog feed: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

// Load parses feed rows from r. The first row is skipped when it looks
// like a header. Both comma and semicolon separated feeds are accepted.
func (l *Loader) Load(r io.Reader) ([]model.CatalogItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog feed: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = detectSeparator(string(data))
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog feed: %w", err)
	}

	var items []model.CatalogItem
	seen := make(map[string]bool)
	for i, rec := range records {
		item, err := l.normalize(rec)
		if err != nil {
			if i == 0 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("catalog feed row %d: %w", i+1, err)
		}
		if seen[item.Reference] {
			return nil, fmt.Errorf("catalog feed row %d: duplicate reference %q", i+1, item.Reference)
		}
		seen[item.Reference] = true
		items = append(items, item)
	}
	return items, nil
}

// normalize turns one raw row into the canonical item. All internal
// code operates on the result, never on raw feed fields.
func (l *Loader) normalize(rec []string) (model.CatalogItem, error) {
	reference := strings.TrimSpace(rec[0])
	name := strings.TrimSpace(rec[1])
	category := strings.TrimSpace(rec[2])
	unit := strings.TrimSpace(rec[4])

	if reference == "" {
		return model.CatalogItem{}, fmt.Errorf("empty reference")
	}
	if name == "" {
		return model.CatalogItem{}, fmt.Errorf("empty name")
	}

	price, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(rec[3]), ",", ".", 1))
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("invalid price %q", rec[3])
	}
	if price.Sign() < 0 {
		return model.CatalogItem{}, fmt.Errorf("negative price %q", rec[3])
	}

	if category == "" {
		category = l.classifier.Classify(name)
	}
	if unit == "" {
		unit = "unit"
	}

	return model.CatalogItem{
		Reference: reference,
		Name:      name,
		Category:  category,
		Price:     price,
		Unit:      unit,
	}, nil
}

func detectSeparator(data string) rune {
	line := data
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
