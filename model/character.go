package model

import "gorm.io/datatypes"

// Character is a row of the VORP characters table. Only the columns the
// editor reads or writes are mapped.
type Character struct {
	CharIdentifier int64          `gorm:"column:charidentifier;primaryKey;autoIncrement" json:"charidentifier"`
	Identifier     string         `gorm:"column:identifier;size:50;not null" json:"identifier"`
	SteamName      string         `gorm:"column:steamname;size:50" json:"steamname"`
	FirstName      string         `gorm:"column:firstname;size:50" json:"firstname"`
	LastName       string         `gorm:"column:lastname;size:50" json:"lastname"`
	Money          float64        `gorm:"column:money;default:0" json:"money"`
	Health         int            `gorm:"column:healthouter;default:500" json:"health"`
	IsDead         bool           `gorm:"column:isdead;default:false" json:"isdead"`
	Coords         datatypes.JSON `gorm:"column:coords" json:"coords"`
}
