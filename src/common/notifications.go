package common

import (
	"bss/src/config"
	"bss/src/lib"
	"bss/src/models"
	"fmt"
	"log"
	"os"
)

// NotifyBookingCreated emails the customer a booking confirmation. Callers
// run it in a goroutine; a failed send never affects the booking itself.
func NotifyBookingCreated(booking *models.ServiceBooking) {
	if booking.Customer == nil || booking.AppointmentSlot == nil || booking.ServiceType == nil {
		return
	}
	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("Booking Confirmation: %s", booking.ServiceType.Name),
		From:     senderFrom,
		FromName: "noreply",
		To: []string{
			booking.Customer.Email,
		},
		Body: fmt.Sprintf(`
			<p>Hi %s, your booking for <b>%s</b> is confirmed</p>
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
		log.Printf("[mail] confirmation for booking %d failed: %s\n", booking.ID, err.Error())
	}
}

// NotifyBookingCanceled emails the customer after a booking is removed.
func NotifyBookingCanceled(booking *models.ServiceBooking) {
	if booking.Customer == nil || booking.ServiceType == nil {
		return
	}
	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("Booking Canceled: %s", booking.ServiceType.Name),
		From:     senderFrom,
		FromName: "noreply",
		To: []string{
			booking.Customer.Email,
		},
		Body: fmt.Sprintf(`
			<p>Hi %s, your booking for <b>%s</b> has been canceled</p>
			<p>The appointment slot has been released and any reserved parts returned to stock.</p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			booking.Customer.Name,
			booking.ServiceType.Name,
		),
		Html: true,
	}
	if err := lib.SendMail(input); err != nil {
		log.Printf("[mail] cancellation for booking %d failed: %s\n", booking.ID, err.Error())
	}
}
