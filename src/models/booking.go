package models

import (
	"bss/src/types"
	"time"
)

type ServiceBooking struct {
	ID                uint       `gorm:"primarykey" json:"id"`
	CustomerID        uint       `json:"customer_id,omitempty"`
	ServiceTypeID     uint       `json:"service_type_id,omitempty"`
	AppointmentSlotID uint       `json:"appointment_slot_id,omitempty"`
	Status            string     `json:"status,omitempty"`
	Priority          string     `json:"priority,omitempty"`
	Technician        string     `json:"technician,omitempty"`
	ActualStartTime   *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime     *time.Time `json:"actual_end_time,omitempty"`
	Notes             string     `json:"notes,omitempty"`

	// StatusHistory is append-only; entries are "<status> at <timestamp>".
	StatusHistory types.JSONBArray `gorm:"type:jsonb" json:"status_history,omitempty"`

	Customer        *Customer        `gorm:"foreignKey:customer_id" json:"customer,omitempty"`
	ServiceType     *ServiceType     `gorm:"foreignKey:service_type_id" json:"service_type,omitempty"`
	AppointmentSlot *AppointmentSlot `gorm:"foreignKey:appointment_slot_id" json:"appointment_slot,omitempty"`
	SpareParts      []*SparePart     `gorm:"many2many:booking_spare_parts;" json:"spare_parts,omitempty"`

	types.Timestamps
}
