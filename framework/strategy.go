// Package framework holds the per-deployment differences between the two
// supported game-server schemas (VORP and ESX). A Strategy is chosen once at
// boot and handed to everything that builds item queries.
package framework

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	dbadapter "github.com/gamestaff/itemadmin/db"
	"github.com/gamestaff/itemadmin/model"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

const (
	NameVorp = "vorp"
	NameESX  = "esx"
)

// ErrInvalidWeight is returned when a weight string does not parse for the
// active framework.
var ErrInvalidWeight = errors.New("framework: invalid weight")

var identRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidIdentifier reports whether name is safe to splice into SQL as a
// table or column name.
func ValidIdentifier(name string) bool { return identRe.MatchString(name) }

// Strategy describes one framework's items table.
type Strategy interface {
	Name() string
	// Table is the validated items table identifier.
	Table() string
	// KeyColumn is the column that uniquely identifies an item.
	KeyColumn() string
	OrderClause() string
	ItemTable() model.Table

	// Search scopes db to the items table rows whose key or label contains term.
	Search(db *gorm.DB, term string) *gorm.DB
	// Fetch runs a scoped query and returns the rows as fetched.
	Fetch(tx *gorm.DB) ([]model.ItemRow, error)
	// Shape applies display-only fixups after filtering.
	Shape(rows []model.ItemRow)

	ParseWeight(raw string) (float64, error)
	MetaUpdates(label string, weight float64, desc string) map[string]interface{}
	NewItem(key, label string, weight float64, desc string) interface{}

	// PersistsImage reports whether uploads record the file name in the items table.
	PersistsImage() bool
	// SupportsCharacters reports whether the characters table follows the VORP layout.
	SupportsCharacters() bool
}

// New returns the strategy for the named framework.
func New(name, table, order string) (Strategy, error) {
	if !ValidIdentifier(table) {
		return nil, fmt.Errorf("framework: invalid table name %q", table)
	}
	dir := "ASC"
	switch strings.ToLower(order) {
	case "", "asc":
	case "desc":
		dir = "DESC"
	default:
		return nil, fmt.Errorf("framework: invalid order %q", order)
	}

	switch strings.ToLower(name) {
	case NameVorp:
		return &Vorp{base{table: table, key: "item", dir: dir}}, nil
	case NameESX:
		return &ESX{base{table: table, key: "name", dir: dir}}, nil
	default:
		return nil, fmt.Errorf("framework: unknown framework %q", name)
	}
}

type base struct {
	table string
	key   string
	dir   string
}

func (b base) Table() string       { return b.table }
func (b base) KeyColumn() string   { return b.key }
func (b base) OrderClause() string { return b.key + " " + b.dir }

func (b base) Search(db *gorm.DB, term string) *gorm.DB {
	like := dbadapter.LikeOperator(db)
	pattern := "%" + term + "%"
	return db.Table(b.table).
		Where(fmt.Sprintf("(%s %s ? OR label %s ?)", b.key, like, like), pattern, pattern)
}

// normalizeDecimal accepts both "0.5" and "0,5".
func normalizeDecimal(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
}

// copyRows converts framework models into ItemRows. Nullable image columns
// become empty strings.
func copyRows(dst *[]model.ItemRow, src interface{}) error {
	return copier.CopyWithOption(dst, src, copier.Option{
		Converters: []copier.TypeConverter{{
			SrcType: (*string)(nil),
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				s, _ := src.(*string)
				if s == nil {
					return "", nil
				}
				return *s, nil
			},
		}},
	})
}
