package models

import "bss/src/types"

type Customer struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	BikeModel string `json:"bike_model,omitempty"`

	types.Timestamps
}
