package model

import "time"

// VorpItem is a row of the VORP items table. The key column is "item".
type VorpItem struct {
	Item      string    `gorm:"column:item;primaryKey;size:50" json:"item"`
	Label     string    `gorm:"column:label;size:50;not null" json:"label"`
	Weight    float64   `gorm:"column:weight;type:decimal(10,2)" json:"weight"`
	Desc      string    `gorm:"column:desc;type:text" json:"desc"`
	Image     *string   `gorm:"column:image;size:255" json:"image"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// ESXItem is a row of the ESX items table. The key column is "name" and the
// weight is an integer. Stock ESX tables carry no image or description, so
// those columns are read when present. Inserts never write them; desc is
// updated by column name when the table has it.
type ESXItem struct {
	Name      string  `gorm:"column:name;primaryKey;size:50" json:"name"`
	Label     string  `gorm:"column:label;size:50;not null" json:"label"`
	Weight    int     `gorm:"column:weight" json:"weight"`
	Rare      bool    `gorm:"column:rare;default:false" json:"rare"`
	CanRemove bool    `gorm:"column:can_remove;default:true" json:"can_remove"`
	Desc      string  `gorm:"column:desc;->" json:"desc"`
	Image     *string `gorm:"column:image;->" json:"image"`
}

// ItemRow is the framework-neutral shape the item list is rendered from.
type ItemRow struct {
	Item   string  `json:"item"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Desc   string  `json:"desc"`
	Image  string  `json:"image"`
}
