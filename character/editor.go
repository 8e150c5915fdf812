// Package character edits player characters on VORP servers: position,
// health and the dead flag.
package character

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gamestaff/itemadmin/framework"
	"github.com/gamestaff/itemadmin/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListLimit caps how many characters a single listing returns.
const ListLimit = 200

var (
	ErrInvalidHealth = errors.New("character: health must be a whole number")
	ErrNotFound      = errors.New("character: not found")
)

// zeroCoords is shown for rows whose stored blob cannot be decoded.
var zeroCoords = Coords{}

// Row is a character prepared for display.
type Row struct {
	ID         int64   `json:"id"`
	Identifier string  `json:"identifier"`
	SteamName  string  `json:"steamname"`
	FirstName  string  `json:"firstname"`
	LastName   string  `json:"lastname"`
	Money      float64 `json:"money"`
	Health     int     `json:"health"`
	Dead       bool    `json:"dead"`
	Coords     string  `json:"coords"`
}

// UpdateRequest carries the editable fields as submitted by the form.
type UpdateRequest struct {
	ID         int64
	Identifier string
	Health     string
	Dead       bool
	Coords     string
}

type Editor struct {
	db    *gorm.DB
	table string
}

// New returns an editor over the given characters table.
func New(db *gorm.DB, table string) (*Editor, error) {
	if !framework.ValidIdentifier(table) {
		return nil, fmt.Errorf("character: invalid table name %q", table)
	}
	return &Editor{db: db, table: table}, nil
}

// Table returns the characters table with its model, for migrations.
func (e *Editor) Table() model.Table {
	return model.Table{Name: e.table, Model: &model.Character{}}
}

// List returns characters whose name, steam name or identifier contains search.
func (e *Editor) List(ctx context.Context, search string) ([]Row, error) {
	q := e.db.WithContext(ctx).Table(e.table)
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where("firstname LIKE ? OR lastname LIKE ? OR steamname LIKE ? OR identifier LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	var chars []model.Character
	if err := q.Order("charidentifier").Limit(ListLimit).Find(&chars).Error; err != nil {
		return nil, fmt.Errorf("character: list: %w", err)
	}

	rows := make([]Row, len(chars))
	for i, ch := range chars {
		rows[i] = Row{
			ID:         ch.CharIdentifier,
			Identifier: ch.Identifier,
			SteamName:  ch.SteamName,
			FirstName:  ch.FirstName,
			LastName:   ch.LastName,
			Money:      ch.Money,
			Health:     ch.Health,
			Dead:       ch.IsDead,
			Coords:     decodeCoords(ch.Coords).String(),
		}
	}
	return rows, nil
}

// Update validates req and writes it to the character row. Nothing is
// written unless every field parses.
func (e *Editor) Update(ctx context.Context, req UpdateRequest) error {
	health, err := strconv.Atoi(strings.TrimSpace(req.Health))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHealth, err)
	}
	coords, err := ParseCoords(req.Coords)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(coords)
	if err != nil {
		return err
	}

	res := e.db.WithContext(ctx).Table(e.table).
		Where("charidentifier = ?", req.ID).
		Updates(map[string]interface{}{
			"identifier":  req.Identifier,
			"healthouter": health,
			"isdead":      req.Dead,
			"coords":      datatypes.JSON(blob),
		})
	if res.Error != nil {
		return fmt.Errorf("character: update %d: %w", req.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeCoords(raw datatypes.JSON) Coords {
	var c Coords
	if len(raw) == 0 || json.Unmarshal(raw, &c) != nil {
		return zeroCoords
	}
	return c
}
