package models

import (
	"bss/src/types"
	"time"
)

type AppointmentSlot struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	StartTime  time.Time `json:"start_time,omitempty"`
	EndTime    time.Time `json:"end_time,omitempty"`
	Technician string    `json:"technician,omitempty"`
	// No column default here: gorm skips zero-valued fields that carry a
	// default tag on INSERT, which would flip Available=false slots back to
	// available. The create path sets the default instead.
	Available bool `json:"available"`

	types.Timestamps
}
