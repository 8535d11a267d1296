package model

import (
	"time"

	"marquee/shared/constant"
	"marquee/shared/model"
	"marquee/shared/timezone"
)

const (
	TableName  = "shows"
	EntityName = "show"

	FieldID                     = "id"
	FieldDate                   = "date"
	FieldStartTime              = "start_time"
	FieldName                   = "name"
	FieldShowType               = "show_type"
	FieldCapacity               = "capacity"
	FieldManualCapacityOverride = "manual_capacity_override"
	FieldIsClosed               = "is_closed"
	FieldExternalBookings       = "external_bookings"

	DefaultStartTime = "19:30"
)

type Show struct {
	ID                     string `db:"id"`
	Date                   string `db:"date"`
	StartTime              string `db:"start_time"`
	Name                   string `db:"name"`
	ShowType               string `db:"show_type"`
	Capacity               int    `db:"capacity"`
	ManualCapacityOverride *int   `db:"manual_capacity_override"`
	IsClosed               bool   `db:"is_closed"`
	ExternalBookings       int    `db:"external_bookings"`
	model.Metadata
}

// EffectiveCapacity is the admin override when set, the base capacity
// otherwise.
func (s Show) EffectiveCapacity() int {
	if s.ManualCapacityOverride != nil {
		return *s.ManualCapacityOverride
	}

	return s.Capacity
}

// StartAt combines the date and start time in the application timezone.
func (s Show) StartAt() (time.Time, error) {
	return timezone.Parse(
		constant.ShowDateFormat+" "+constant.ShowTimeFormat,
		s.Date+" "+s.StartTime,
	)
}
