package framework

import (
	"fmt"
	"strconv"

	"github.com/gamestaff/itemadmin/model"
	"gorm.io/gorm"
)

// ESX is the ESX (FiveM) items layout: key column "name", integer weight.
// The icon file name is never stored; it is derived from the key at read time.
type ESX struct {
	base
}

func (e *ESX) Name() string { return NameESX }

func (e *ESX) ItemTable() model.Table {
	return model.Table{Name: e.table, Model: &model.ESXItem{}}
}

func (e *ESX) Fetch(tx *gorm.DB) ([]model.ItemRow, error) {
	var items []model.ESXItem
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	rows := make([]model.ItemRow, 0, len(items))
	if err := copyRows(&rows, &items); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Item = items[i].Name
	}
	return rows, nil
}

// Shape fills the image column with "<name>.png" where nothing is recorded.
func (e *ESX) Shape(rows []model.ItemRow) {
	for i := range rows {
		if rows[i].Image == "" {
			rows[i].Image = rows[i].Item + ".png"
		}
	}
}

func (e *ESX) ParseWeight(raw string) (float64, error) {
	w, err := strconv.Atoi(normalizeDecimal(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeight, raw)
	}
	return float64(w), nil
}

// MetaUpdates leaves desc out; stock ESX tables have no such column and
// the browser adds it only where one exists.
func (e *ESX) MetaUpdates(label string, weight float64, _ string) map[string]interface{} {
	return map[string]interface{}{"label": label, "weight": int(weight)}
}

func (e *ESX) NewItem(key, label string, weight float64, _ string) interface{} {
	return &model.ESXItem{Name: key, Label: label, Weight: int(weight), CanRemove: true}
}

func (e *ESX) PersistsImage() bool      { return false }
func (e *ESX) SupportsCharacters() bool { return false }
