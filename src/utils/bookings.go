package utils

import (
	"bss/src/config"
	"bss/src/db"
	"bss/src/models"
	"bss/src/types"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateBooking runs the whole reservation protocol in one transaction:
// resolve references, check preconditions, flip the slot, take the stock,
// persist the booking. A failure at any step leaves nothing behind.
func CreateBooking(params *types.BookingRequestBody) (*models.ServiceBooking, error) {
	requestId := uuid.New()
	log.Printf("[booking][%s] creating booking for customer %d\n", requestId, params.CustomerID)

	actualStart, actualEnd, err := parseActualTimes(params)
	if err != nil {
		return nil, err
	}

	var booking models.ServiceBooking
	dbi := db.GetDb()
	err = dbi.Transaction(func(tx *gorm.DB) error {
		customer, serviceType, slot, spareParts, err := resolveBookingRefs(tx, params)
		if err != nil {
			return err
		}
		if !slot.Available {
			return types.ErrSlotUnavailable
		}
		for _, part := range spareParts {
			if part.Quantity <= 0 {
				return &types.InsufficientStockError{PartName: part.PartName}
			}
		}

		now := time.Now()
		booking = models.ServiceBooking{
			CustomerID:        customer.ID,
			ServiceTypeID:     serviceType.ID,
			AppointmentSlotID: slot.ID,
			Status:            params.Status,
			Priority:          params.Priority,
			Technician:        params.Technician,
			Notes:             params.Notes,
			ActualStartTime:   actualStart,
			ActualEndTime:     actualEnd,
			StatusHistory:     types.JSONBArray{historyEntry(params.Status, now)},
			SpareParts:        spareParts,
		}

		if err := reserveSlot(tx, slot.ID); err != nil {
			return err
		}
		for _, part := range spareParts {
			if err := takeSparePart(tx, part); err != nil {
				return err
			}
		}
		if err := tx.Omit("SpareParts.*").Create(&booking).Error; err != nil {
			return err
		}
		return reloadBooking(tx, booking.ID, &booking)
	})
	if err != nil {
		log.Printf("[booking][%s] create failed: %s\n", requestId, err.Error())
		return nil, err
	}
	return &booking, nil
}

// UpdateBooking releases everything the previous version of the booking held
// before reserving for the new version, so moving a booking onto its own slot
// or re-selecting one of its own spare parts always succeeds.
func UpdateBooking(id uint, params *types.BookingRequestBody) (*models.ServiceBooking, error) {
	requestId := uuid.New()
	log.Printf("[booking][%s] updating booking %d\n", requestId, id)

	actualStart, actualEnd, err := parseActualTimes(params)
	if err != nil {
		return nil, err
	}

	var booking models.ServiceBooking
	dbi := db.GetDb()
	err = dbi.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Preload("SpareParts").
			Where(&models.ServiceBooking{ID: id}).
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("Booking", id)
			}
			return err
		}

		customer, serviceType, newSlot, newParts, err := resolveBookingRefs(tx, params)
		if err != nil {
			return err
		}

		slotChanging := newSlot.ID != booking.AppointmentSlotID
		if slotChanging && !newSlot.Available {
			return types.ErrSlotUnavailable
		}
		slotMinutes := int(newSlot.EndTime.Sub(newSlot.StartTime).Minutes())
		if slotMinutes < serviceType.EstimatedDurationMinutes {
			return types.ErrInsufficientSlotDuration
		}

		if params.Status != booking.Status {
			booking.StatusHistory = append(booking.StatusHistory, historyEntry(params.Status, time.Now()))
		}

		// Release the previous version's claims first.
		if slotChanging {
			if err := releaseSlot(tx, booking.AppointmentSlotID); err != nil {
				return err
			}
		}
		for _, part := range booking.SpareParts {
			if err := returnSparePart(tx, part.ID); err != nil {
				return err
			}
		}

		if slotChanging {
			if err := reserveSlot(tx, newSlot.ID); err != nil {
				return err
			}
		}
		for _, part := range newParts {
			if err := takeSparePart(tx, part); err != nil {
				return err
			}
		}

		booking.CustomerID = customer.ID
		booking.ServiceTypeID = serviceType.ID
		booking.AppointmentSlotID = newSlot.ID
		booking.Status = params.Status
		booking.Priority = params.Priority
		booking.Technician = params.Technician
		booking.Notes = params.Notes
		booking.ActualStartTime = actualStart
		booking.ActualEndTime = actualEnd
		booking.Customer = nil
		booking.ServiceType = nil
		booking.AppointmentSlot = nil
		booking.SpareParts = nil

		if err := tx.Omit("SpareParts").Save(&booking).Error; err != nil {
			return err
		}
		if err := tx.Model(&booking).Association("SpareParts").Replace(newParts); err != nil {
			return err
		}
		return reloadBooking(tx, booking.ID, &booking)
	})
	if err != nil {
		log.Printf("[booking][%s] update failed: %s\n", requestId, err.Error())
		return nil, err
	}
	return &booking, nil
}

// DeleteBooking releases the slot and restores the stock of every associated
// spare part before removing the record.
func DeleteBooking(id uint) error {
	log.Printf("[booking] deleting booking %d\n", id)
	dbi := db.GetDb()
	return dbi.Transaction(func(tx *gorm.DB) error {
		var booking models.ServiceBooking
		if err := tx.
			Preload("SpareParts").
			Where(&models.ServiceBooking{ID: id}).
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("Booking", id)
			}
			return err
		}
		if booking.AppointmentSlotID != 0 {
			if err := releaseSlot(tx, booking.AppointmentSlotID); err != nil {
				return err
			}
		}
		for _, part := range booking.SpareParts {
			if err := returnSparePart(tx, part.ID); err != nil {
				return err
			}
		}
		if err := tx.Model(&booking).Association("SpareParts").Clear(); err != nil {
			return err
		}
		return tx.Delete(&booking).Error
	})
}

func GetBooking(id uint) (*models.ServiceBooking, error) {
	var booking models.ServiceBooking
	dbi := db.GetDb()
	if err := reloadBooking(dbi, id, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func GetAllBookings(page, size int) ([]models.ServiceBooking, int64, error) {
	var bookings []models.ServiceBooking
	var total int64
	dbi := db.GetDb()
	if err := dbi.Model(&models.ServiceBooking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := dbi.
		Preload("Customer").
		Preload("ServiceType").
		Preload("AppointmentSlot").
		Preload("SpareParts").
		Order("created_at desc").
		Offset(page * size).
		Limit(size).
		Find(&bookings).
		Error
	return bookings, total, err
}

func GetBookingsByCustomer(customerId uint) ([]models.ServiceBooking, error) {
	var bookings []models.ServiceBooking
	dbi := db.GetDb()
	err := dbi.
		Where(&models.ServiceBooking{CustomerID: customerId}).
		Preload("ServiceType").
		Preload("AppointmentSlot").
		Preload("SpareParts").
		Order("created_at desc").
		Find(&bookings).
		Error
	return bookings, err
}

func GetBookingsByStatus(status string) ([]models.ServiceBooking, error) {
	var bookings []models.ServiceBooking
	dbi := db.GetDb()
	err := dbi.
		Where("status = ?", status).
		Preload("Customer").
		Preload("AppointmentSlot").
		Order("created_at desc").
		Find(&bookings).
		Error
	return bookings, err
}

// SearchBookings matches any of: exact status, technician prefix, or customer
// name/email prefix. Prefix matching is case-insensitive.
func SearchBookings(query *types.BookingSearchQuery) ([]models.ServiceBooking, int64, error) {
	var bookings []models.ServiceBooking
	var total int64
	dbi := db.GetDb()
	q := dbi.
		Model(&models.ServiceBooking{}).
		Joins("JOIN customers ON customers.id = service_bookings.customer_id")
	var conds []string
	var args []any
	if query.Status != "" {
		conds = append(conds, "service_bookings.status = ?")
		args = append(args, query.Status)
	}
	if query.Technician != "" {
		conds = append(conds, "LOWER(service_bookings.technician) LIKE LOWER(?)")
		args = append(args, query.Technician+"%")
	}
	if query.Customer != "" {
		conds = append(conds, "(LOWER(customers.name) LIKE LOWER(?) OR LOWER(customers.email) LIKE LOWER(?))")
		args = append(args, query.Customer+"%", query.Customer+"%")
	}
	if len(conds) > 0 {
		q = q.Where(strings.Join(conds, " OR "), args...)
	}
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.
		Preload("Customer").
		Preload("ServiceType").
		Preload("AppointmentSlot").
		Order("service_bookings.created_at desc").
		Offset(query.Page * query.Size).
		Limit(query.Size).
		Find(&bookings).
		Error
	return bookings, total, err
}

// reserveSlot is a compare-and-set on the availability flag so two concurrent
// operations cannot both claim the same slot.
func reserveSlot(tx *gorm.DB, slotId uint) error {
	res := tx.
		Model(&models.AppointmentSlot{}).
		Where("id = ? AND available = ?", slotId, true).
		Update("available", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.ErrSlotUnavailable
	}
	return nil
}

// releaseSlot is idempotent: releasing an already-available slot is a no-op.
func releaseSlot(tx *gorm.DB, slotId uint) error {
	return tx.
		Model(&models.AppointmentSlot{}).
		Where("id = ?", slotId).
		Update("available", true).
		Error
}

// takeSparePart decrements stock only while it is positive, so the quantity
// can never go negative even under concurrent decrements.
func takeSparePart(tx *gorm.DB, part *models.SparePart) error {
	res := tx.
		Model(&models.SparePart{}).
		Where("id = ? AND quantity > 0", part.ID).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &types.InsufficientStockError{PartName: part.PartName}
	}
	return nil
}

func returnSparePart(tx *gorm.DB, partId uint) error {
	return tx.
		Model(&models.SparePart{}).
		Where("id = ?", partId).
		UpdateColumn("quantity", gorm.Expr("quantity + 1")).
		Error
}

func resolveBookingRefs(tx *gorm.DB, params *types.BookingRequestBody) (*models.Customer, *models.ServiceType, *models.AppointmentSlot, []*models.SparePart, error) {
	var customer models.Customer
	if err := tx.Where(&models.Customer{ID: params.CustomerID}).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, nil, types.NewNotFoundError("Customer", params.CustomerID)
		}
		return nil, nil, nil, nil, err
	}
	var serviceType models.ServiceType
	if err := tx.Where(&models.ServiceType{ID: params.ServiceTypeID}).First(&serviceType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, nil, types.NewNotFoundError("Service type", params.ServiceTypeID)
		}
		return nil, nil, nil, nil, err
	}
	var slot models.AppointmentSlot
	if err := tx.Where(&models.AppointmentSlot{ID: params.AppointmentSlotID}).First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, nil, types.NewNotFoundError("Appointment slot", params.AppointmentSlotID)
		}
		return nil, nil, nil, nil, err
	}
	spareParts := make([]*models.SparePart, 0, len(params.SparePartIDs))
	if len(params.SparePartIDs) > 0 {
		if err := tx.Where("id IN (?)", params.SparePartIDs).Find(&spareParts).Error; err != nil {
			return nil, nil, nil, nil, err
		}
		found := make(map[uint]bool, len(spareParts))
		for _, part := range spareParts {
			found[part.ID] = true
		}
		for _, partId := range params.SparePartIDs {
			if !found[partId] {
				return nil, nil, nil, nil, types.NewNotFoundError("Spare part", partId)
			}
		}
	}
	return &customer, &serviceType, &slot, spareParts, nil
}

func reloadBooking(tx *gorm.DB, id uint, out *models.ServiceBooking) error {
	if err := tx.
		Preload("Customer").
		Preload("ServiceType").
		Preload("AppointmentSlot").
		Preload("SpareParts").
		Where(&models.ServiceBooking{ID: id}).
		First(out).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NewNotFoundError("Booking", id)
		}
		return err
	}
	return nil
}

func historyEntry(status string, at time.Time) string {
	return fmt.Sprintf("%s at %s", status, at.Format(config.TIME_PARSE_FORMAT))
}

func parseActualTimes(params *types.BookingRequestBody) (*time.Time, *time.Time, error) {
	var actualStart, actualEnd *time.Time
	if params.ActualStartTime != nil {
		t, err := time.Parse(config.TIME_PARSE_FORMAT, *params.ActualStartTime)
		if err != nil {
			return nil, nil, &types.InvalidArgumentError{Reason: fmt.Sprintf("invalid actual_start_time: %s", *params.ActualStartTime)}
		}
		actualStart = &t
	}
	if params.ActualEndTime != nil {
		t, err := time.Parse(config.TIME_PARSE_FORMAT, *params.ActualEndTime)
		if err != nil {
			return nil, nil, &types.InvalidArgumentError{Reason: fmt.Sprintf("invalid actual_end_time: %s", *params.ActualEndTime)}
		}
		actualEnd = &t
	}
	if actualStart != nil && actualEnd != nil && actualStart.After(*actualEnd) {
		return nil, nil, &types.InvalidArgumentError{Reason: "actual_start_time must be before actual_end_time"}
	}
	return actualStart, actualEnd, nil
}
