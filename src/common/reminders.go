package common

import (
	"bss/src/config"
	"bss/src/db"
	"bss/src/lib"
	"bss/src/models"
	"bss/src/types"
	"fmt"
	"log"
	"os"
	"time"
)

// SendUpcomingReminders emails every customer whose booked slot starts within
// the next 24 hours. Canceled bookings are skipped.
func SendUpcomingReminders() {
	db := db.GetDb()
	now := time.Now()
	var bookings []models.ServiceBooking
	err := db.
		Joins("JOIN appointment_slots ON appointment_slots.id = service_bookings.appointment_slot_id").
		Where("appointment_slots.start_time BETWEEN ? AND ?", now, now.Add(24*time.Hour)).
		Where("service_bookings.status <> ?", string(types.BOOKING_CANCELED)).
		Preload("Customer").
		Preload("ServiceType").
		Preload("AppointmentSlot").
		Find(&bookings).
		Error
	if err != nil {
		log.Printf("[reminders] query failed: %s\n", err.Error())
		return
	}
	log.Printf("[reminders] %d bookings due in the next 24h\n", len(bookings))
	senderFrom := os.Getenv("SMTP_FROM")
	for _, booking := range bookings {
		if booking.Customer == nil || booking.ServiceType == nil || booking.AppointmentSlot == nil {
			continue
		}
		input := &lib.SendMailInput{
			Subject:  fmt.Sprintf("Reminder: %s tomorrow", booking.ServiceType.Name),
			From:     senderFrom,
			FromName: "noreply",
			To: []string{
				booking.Customer.Email,
			},
			Body: fmt.Sprintf(`
				<p>Hi %s, a reminder for your upcoming <b>%s</b> appointment</p>
				<p>When: %s</p>
				<p>Technician: %s</p>
				<p>This is a system-generated message. Do not reply to this email.</p>
				`,
				booking.Customer.Name,
				booking.ServiceType.Name,
				booking.AppointmentSlot.StartTime.Format(config.TIME_PARSE_FORMAT),
				booking.AppointmentSlot.Technician,
			),
			Html: true,
		}
		if err := lib.SendMail(input); err != nil {
			log.Printf("[reminders] send for booking %d failed: %s\n", booking.ID, err.Error())
		}
	}
}
