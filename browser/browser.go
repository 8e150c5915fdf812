// Package browser implements the item list: search, pagination, the
// "missing icon" filter and the metadata edits made from the same page.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gamestaff/itemadmin/framework"
	"github.com/gamestaff/itemadmin/icons"
	"github.com/gamestaff/itemadmin/model"
	"gorm.io/gorm"
)

// PageSize is the fixed number of rows per page.
const PageSize = 20

var (
	ErrInvalidInput  = errors.New("browser: invalid input")
	ErrNotFound      = errors.New("browser: item not found")
	ErrAlreadyExists = errors.New("browser: item already exists")
)

// Query is one request for a page of items.
type Query struct {
	Search      string
	Page        int
	MissingOnly bool
}

// Result is one rendered page.
type Result struct {
	Rows    []model.ItemRow   `json:"items"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	HasNext bool              `json:"has_next"`
	Icons   map[string]string `json:"-"`
}

// Browser runs item queries for the active framework.
type Browser struct {
	db       *gorm.DB
	strategy framework.Strategy
	icons    *icons.Store

	descOnce   sync.Once
	descColumn bool
}

// New creates a Browser.
func New(db *gorm.DB, strategy framework.Strategy, store *icons.Store) *Browser {
	return &Browser{db: db, strategy: strategy, icons: store}
}

// DescEditable reports whether the items table has a desc column. VORP
// tables always do; ESX tables only when the server added one. The answer
// is looked up once.
func (b *Browser) DescEditable() bool {
	b.descOnce.Do(func() {
		b.descColumn = b.db.Migrator().HasColumn(b.strategy.Table(), "desc")
	})
	return b.descColumn
}

// Strategy returns the framework the browser was built for.
func (b *Browser) Strategy() framework.Strategy { return b.strategy }

// ParsePage parses a 1-based page number. Anything malformed or below 1
// yields page 1.
func ParsePage(raw string) int {
	p, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// HasNext reports whether rows exist past the page starting at offset.
func HasNext(offset int, total int64) bool {
	return int64(offset+PageSize) < total
}

// Browse returns the requested page and the current icon map.
//
// The missing-icon filter runs on the fetched page, so a filtered page can
// hold fewer than PageSize rows while more matching rows exist later, and
// Total/HasNext still describe the unfiltered search.
func (b *Browser) Browse(ctx context.Context, q Query) (*Result, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize
	db := b.db.WithContext(ctx)

	var total int64
	if err := b.strategy.Search(db, q.Search).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("browser: count: %w", err)
	}

	rows, err := b.strategy.Fetch(b.strategy.Search(db, q.Search).
		Order(b.strategy.OrderClause()).
		Limit(PageSize).
		Offset(offset))
	if err != nil {
		return nil, fmt.Errorf("browser: fetch page %d: %w", page, err)
	}

	iconMap, err := b.icons.Scan()
	if err != nil {
		return nil, err
	}
	if q.MissingOnly {
		rows = FilterMissing(rows, iconMap)
	}
	b.strategy.Shape(rows)

	return &Result{
		Rows:    rows,
		Total:   total,
		Page:    page,
		HasNext: HasNext(offset, total),
		Icons:   iconMap,
	}, nil
}

// FilterMissing keeps the rows whose image is empty or not present on disk.
func FilterMissing(rows []model.ItemRow, iconMap map[string]string) []model.ItemRow {
	kept := rows[:0]
	for _, r := range rows {
		if _, ok := iconMap[r.Image]; r.Image == "" || !ok {
			kept = append(kept, r)
		}
	}
	return kept
}

// UpdateMeta sets label, weight and description of an existing item.
// The weight accepts a comma as decimal separator.
func (b *Browser) UpdateMeta(ctx context.Context, key, label, weight, desc string) error {
	w, err := b.strategy.ParseWeight(weight)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	desc = strings.TrimSpace(desc)
	updates := b.strategy.MetaUpdates(strings.TrimSpace(label), w, desc)
	if b.DescEditable() {
		updates["desc"] = desc
	} else {
		delete(updates, "desc")
	}
	res := b.byKey(ctx, key).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("browser: update %s: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

// AddItem inserts a new item row.
func (b *Browser) AddItem(ctx context.Context, key, label, weight, desc string) error {
	key = strings.TrimSpace(key)
	label = strings.TrimSpace(label)
	if key == "" || label == "" {
		return fmt.Errorf("%w: item key and label are required", ErrInvalidInput)
	}
	if _, err := icons.FileName(key); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	w, err := b.strategy.ParseWeight(weight)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var n int64
	if err := b.byKey(ctx, key).Count(&n).Error; err != nil {
		return fmt.Errorf("browser: lookup %s: %w", key, err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, key)
	}

	desc = strings.TrimSpace(desc)
	item := b.strategy.NewItem(key, label, w, desc)
	if err := b.db.WithContext(ctx).Table(b.strategy.Table()).Create(item).Error; err != nil {
		return fmt.Errorf("browser: insert %s: %w", key, err)
	}
	// The ESX model maps desc read-only; write it separately when the
	// column exists.
	if desc != "" && b.strategy.Name() == framework.NameESX && b.DescEditable() {
		if err := b.byKey(ctx, key).Update("desc", desc).Error; err != nil {
			return fmt.Errorf("browser: set desc on %s: %w", key, err)
		}
	}
	return nil
}

// SetImage records the icon file name on the item row. Frameworks that
// derive the file name at read time ignore the call.
func (b *Browser) SetImage(ctx context.Context, key, filename string) error {
	if !b.strategy.PersistsImage() {
		return nil
	}
	res := b.byKey(ctx, key).Update("image", filename)
	if res.Error != nil {
		return fmt.Errorf("browser: set image %s: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

func (b *Browser) byKey(ctx context.Context, key string) *gorm.DB {
	return b.db.WithContext(ctx).
		Table(b.strategy.Table()).
		Where(b.strategy.KeyColumn()+" = ?", key)
}
