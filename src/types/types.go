package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

// JSONBArray backs the booking status history column. Entries are only ever
// appended, never rewritten.
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func jsonbBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("type assertion to []byte failed")
	}
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type PageQuery struct {
	Page int `form:"page,default=0"`
	Size int `form:"size,default=20"`
}

type CreateCustomerRequestBody struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,e164"`
	BikeModel string `json:"bike_model" binding:"required"`
}

type CreateServiceTypeRequestBody struct {
	Name                     string  `json:"name" binding:"required,min=2,max=100"`
	EstimatedDurationMinutes int     `json:"estimated_duration_minutes" binding:"required,gt=0"`
	Cost                     float64 `json:"cost" binding:"gte=0"`
	Description              string  `json:"description,omitempty" binding:"max=500"`
}

type CreateSparePartRequestBody struct {
	PartName   string  `json:"part_name" binding:"required"`
	PartNumber string  `json:"part_number" binding:"required"`
	Quantity   int     `json:"quantity" binding:"gte=0"`
	Price      float64 `json:"price" binding:"required,gt=0"`
}

type UpdateStockRequestBody struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CreateSlotRequestBody struct {
	StartTime  string `json:"start_time" binding:"required" time_format:"2006-01-02 15:04:05 -07:00"`
	EndTime    string `json:"end_time" binding:"required,gtdate=StartTime" time_format:"2006-01-02 15:04:05 -07:00"`
	Technician string `json:"technician" binding:"required"`
	Available  *bool  `json:"available,omitempty"`
}

type BookingRequestBody struct {
	CustomerID        uint    `json:"customer_id" binding:"required"`
	ServiceTypeID     uint    `json:"service_type_id" binding:"required"`
	AppointmentSlotID uint    `json:"appointment_slot_id" binding:"required"`
	Status            string  `json:"status" binding:"required"`
	Priority          string  `json:"priority,omitempty"`
	Technician        string  `json:"technician,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	SparePartIDs      []uint  `json:"spare_part_ids,omitempty"`
	ActualStartTime   *string `json:"actual_start_time,omitempty" time_format:"2006-01-02 15:04:05 -07:00"`
	ActualEndTime     *string `json:"actual_end_time,omitempty" time_format:"2006-01-02 15:04:05 -07:00"`
}

type BookingSearchQuery struct {
	Status     string `form:"status"`
	Technician string `form:"technician"`
	Customer   string `form:"customer"`
	PageQuery
}

type CustomerSearchQuery struct {
	Name  string `form:"name"`
	Email string `form:"email"`
	Phone string `form:"phone"`
	PageQuery
}

type BookingStatus string

const (
	BOOKING_PENDING     BookingStatus = "PENDING"
	BOOKING_IN_PROGRESS BookingStatus = "IN_PROGRESS"
	BOOKING_COMPLETED   BookingStatus = "COMPLETED"
	BOOKING_CANCELED    BookingStatus = "CANCELED"
)

type BookingPriority string

const (
	PRIORITY_LOW    BookingPriority = "LOW"
	PRIORITY_MEDIUM BookingPriority = "MEDIUM"
	PRIORITY_HIGH   BookingPriority = "HIGH"
)
