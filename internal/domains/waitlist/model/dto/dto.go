package dto

import (
	"time"

	"marquee/internal/domains/waitlist/model"
	"marquee/shared"
	gDto "marquee/shared/dto"
	gModel "marquee/shared/model"
	"marquee/shared/timezone"

	"github.com/google/uuid"
)

type CreateWaitlistRequest struct {
	ShowDate   string `json:"show_date"   validate:"required,datetime=2006-01-02"`
	GuestName  string `json:"guest_name"  validate:"required,max=100"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	GuestPhone string `json:"guest_phone" validate:"omitempty,max=30"`
	Guests     int    `json:"guests"      validate:"required,min=1"`
	Priority   *int   `json:"priority"    validate:"omitempty,min=0"`
}

func (c *CreateWaitlistRequest) ToModel(user string) model.WaitlistEntry {
	return model.WaitlistEntry{
		ID:         uuid.NewString(),
		ShowDate:   c.ShowDate,
		GuestName:  c.GuestName,
		GuestEmail: c.GuestEmail,
		GuestPhone: c.GuestPhone,
		Guests:     c.Guests,
		Status:     model.StatusActive,
		Priority:   c.Priority,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateWaitlistRequest struct {
	GuestName  string `db:"guest_name"  json:"guest_name"  validate:"omitempty,max=100"`
	GuestEmail string `db:"guest_email" json:"guest_email" validate:"omitempty,email"`
	GuestPhone string `db:"guest_phone" json:"guest_phone" validate:"omitempty,max=30"`
	Guests     int    `db:"guests"      json:"guests"      validate:"omitempty,min=1"`
	Priority   *int   `db:"priority"    json:"priority"    validate:"omitempty,min=0"`
}

type WaitlistEntryResponse struct {
	ID                 string     `json:"id"`
	ShowDate           string     `json:"show_date"`
	GuestName          string     `json:"guest_name"`
	GuestEmail         string     `json:"guest_email"`
	GuestPhone         string     `json:"guest_phone"`
	Guests             int        `json:"guests"`
	Status             string     `json:"status"`
	Priority           *int       `json:"priority,omitempty"`
	NotificationsSent  int        `json:"notifications_sent"`
	LastNotificationAt *time.Time `json:"last_notification_at,omitempty"`
	ResponseDeadline   *time.Time `json:"response_deadline,omitempty"`
	ReservationID      *string    `json:"reservation_id,omitempty"`
	gDto.Metadata
}

func (r *WaitlistEntryResponse) FromModel(entry model.WaitlistEntry) {
	r.ID = entry.ID
	r.ShowDate = entry.ShowDate
	r.GuestName = entry.GuestName
	r.GuestEmail = entry.GuestEmail
	r.GuestPhone = entry.GuestPhone
	r.Guests = entry.Guests
	r.Status = entry.Status
	r.Priority = entry.Priority
	r.NotificationsSent = entry.NotificationsSent
	r.LastNotificationAt = entry.LastNotificationAt
	r.ResponseDeadline = entry.ResponseDeadline
	r.ReservationID = entry.ReservationID
	r.Metadata.FromModel(entry.Metadata)
}

type GetWaitlistResponse struct {
	Entries   []WaitlistEntryResponse `json:"entries"`
	TotalPage int                     `json:"total_page"`
	TotalData int                     `json:"total_data"`
}

func (r *GetWaitlistResponse) FromModels(models []model.WaitlistEntry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Entries = make([]WaitlistEntryResponse, len(models))
	for i, mod := range models {
		r.Entries[i].FromModel(mod)
	}
}

type ConvertWaitlistResponse struct {
	ReservationID string `json:"reservation_id"`
}

type NotifyNextRequest struct {
	ShowDate string `json:"show_date" validate:"required,datetime=2006-01-02"`
}
