package models

import "bss/src/types"

type ServiceType struct {
	ID                       uint    `gorm:"primarykey" json:"id"`
	Name                     string  `json:"name,omitempty"`
	EstimatedDurationMinutes int     `json:"estimated_duration_minutes,omitempty"`
	Cost                     float64 `json:"cost"`
	Description              string  `json:"description,omitempty"`

	types.Timestamps
}
