package models

import "bss/src/types"

type SparePart struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	PartName   string  `json:"part_name,omitempty"`
	PartNumber string  `json:"part_number,omitempty"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`

	Bookings []*ServiceBooking `gorm:"many2many:booking_spare_parts;" json:"bookings,omitempty"`

	types.Timestamps
}
