package framework

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gamestaff/itemadmin/model"
	"gorm.io/gorm"
)

// Vorp is the VORP (RedM) items layout: key column "item", decimal weight,
// image file name stored in the row.
type Vorp struct {
	base
}

func (v *Vorp) Name() string { return NameVorp }

func (v *Vorp) ItemTable() model.Table {
	return model.Table{Name: v.table, Model: &model.VorpItem{}}
}

func (v *Vorp) Fetch(tx *gorm.DB) ([]model.ItemRow, error) {
	var items []model.VorpItem
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	rows := make([]model.ItemRow, 0, len(items))
	if err := copyRows(&rows, &items); err != nil {
		return nil, err
	}
	return rows, nil
}

func (v *Vorp) Shape([]model.ItemRow) {}

func (v *Vorp) ParseWeight(raw string) (float64, error) {
	w, err := strconv.ParseFloat(normalizeDecimal(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeight, raw)
	}
	return w, nil
}

func (v *Vorp) MetaUpdates(label string, weight float64, desc string) map[string]interface{} {
	return map[string]interface{}{
		"label":      label,
		"weight":     weight,
		"desc":       desc,
		"updated_at": time.Now(),
	}
}

func (v *Vorp) NewItem(key, label string, weight float64, desc string) interface{} {
	return &model.VorpItem{Item: key, Label: label, Weight: weight, Desc: desc}
}

func (v *Vorp) PersistsImage() bool      { return true }
func (v *Vorp) SupportsCharacters() bool { return true }
