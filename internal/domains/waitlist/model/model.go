package model

import (
	"time"

	"marquee/shared/model"
)

const (
	TableName  = "waiting_list"
	EntityName = "waitlist_entry"

	FieldID                 = "id"
	FieldShowDate           = "show_date"
	FieldGuestName          = "guest_name"
	FieldGuestEmail         = "guest_email"
	FieldGuestPhone         = "guest_phone"
	FieldGuests             = "guests"
	FieldStatus             = "status"
	FieldPriority           = "priority"
	FieldNotificationsSent  = "notifications_sent"
	FieldLastNotificationAt = "last_notification_at"
	FieldResponseDeadline   = "response_deadline"
	FieldReservationID      = "reservation_id"

	StatusActive    = "active"
	StatusNotified  = "notified"
	StatusConverted = "converted"
	StatusExpired   = "expired"
)

type WaitlistEntry struct {
	ID                 string     `db:"id"`
	ShowDate           string     `db:"show_date"`
	GuestName          string     `db:"guest_name"`
	GuestEmail         string     `db:"guest_email"`
	GuestPhone         string     `db:"guest_phone"`
	Guests             int        `db:"guests"`
	Status             string     `db:"status"`
	Priority           *int       `db:"priority"`
	NotificationsSent  int        `db:"notifications_sent"`
	LastNotificationAt *time.Time `db:"last_notification_at"`
	ResponseDeadline   *time.Time `db:"response_deadline"`
	ReservationID      *string    `db:"reservation_id"`
	model.Metadata
}

// Convertible reports whether the entry may still become a reservation.
// Converted and expired entries are terminal.
func (e WaitlistEntry) Convertible() bool {
	return e.Status == StatusActive || e.Status == StatusNotified
}

// NotifiedEvent is the payload published when a spot opens up and the next
// fitting entry is offered it.
type NotifiedEvent struct {
	EntryID          string    `json:"entry_id"`
	ShowDate         string    `json:"show_date"`
	GuestName        string    `json:"guest_name"`
	GuestEmail       string    `json:"guest_email"`
	GuestPhone       string    `json:"guest_phone"`
	Guests           int       `json:"guests"`
	ResponseDeadline time.Time `json:"response_deadline"`
}
