package models

import "cbs/src/types"

type MenuItem struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `gorm:"index" json:"category,omitempty"`
	Price       float64 `json:"price"`
	Available   bool    `gorm:"default:true" json:"available"`

	types.Timestamps
}
