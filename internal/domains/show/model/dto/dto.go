package dto

import (
	"marquee/internal/domains/show/model"
	"marquee/shared"
	gDto "marquee/shared/dto"
	gModel "marquee/shared/model"
	"marquee/shared/timezone"

	"github.com/google/uuid"
)

type CreateShowRequest struct {
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"omitempty,datetime=15:04"`
	Name      string `json:"name"       validate:"required,max=100"`
	ShowType  string `json:"show_type"  validate:"required,max=50"`
	Capacity  int    `json:"capacity"   validate:"omitempty,min=1"`
}

func (c *CreateShowRequest) ToModel(user string, defaultCapacity int) model.Show {
	startTime := c.StartTime
	if startTime == "" {
		startTime = model.DefaultStartTime
	}

	capacity := c.Capacity
	if capacity == 0 {
		capacity = defaultCapacity
	}

	return model.Show{
		ID:        uuid.NewString(),
		Date:      c.Date,
		StartTime: startTime,
		Name:      c.Name,
		ShowType:  c.ShowType,
		Capacity:  capacity,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateShowRequest struct {
	StartTime              string `db:"start_time"               json:"start_time" validate:"omitempty,datetime=15:04"`
	Name                   string `db:"name"                     json:"name"       validate:"omitempty,max=100"`
	ShowType               string `db:"show_type"                json:"show_type"  validate:"omitempty,max=50"`
	Capacity               int    `db:"capacity"                 json:"capacity"   validate:"omitempty,min=1"`
	ManualCapacityOverride *int   `db:"manual_capacity_override" json:"manual_capacity_override" validate:"omitempty,min=0"`
}

type ToggleClosedRequest struct {
	IsClosed *bool `json:"is_closed" validate:"required"`
}

type AddExternalBookingsRequest struct {
	Guests int `json:"guests" validate:"required,min=1"`
}

type ShowResponse struct {
	ID                     string `json:"id"`
	Date                   string `json:"date"`
	StartTime              string `json:"start_time"`
	Name                   string `json:"name"`
	ShowType               string `json:"show_type"`
	Capacity               int    `json:"capacity"`
	ManualCapacityOverride *int   `json:"manual_capacity_override,omitempty"`
	EffectiveCapacity      int    `json:"effective_capacity"`
	IsClosed               bool   `json:"is_closed"`
	ExternalBookings       int    `json:"external_bookings"`
	gDto.Metadata
}

func (r *ShowResponse) FromModel(show model.Show) {
	r.ID = show.ID
	r.Date = show.Date
	r.StartTime = show.StartTime
	r.Name = show.Name
	r.ShowType = show.ShowType
	r.Capacity = show.Capacity
	r.ManualCapacityOverride = show.ManualCapacityOverride
	r.EffectiveCapacity = show.EffectiveCapacity()
	r.IsClosed = show.IsClosed
	r.ExternalBookings = show.ExternalBookings
	r.Metadata.FromModel(show.Metadata)
}

type GetShowsResponse struct {
	Shows     []ShowResponse `json:"shows"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetShowsResponse) FromModels(models []model.Show, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Shows = make([]ShowResponse, len(models))
	for i, mod := range models {
		r.Shows[i].FromModel(mod)
	}
}

// GuestCountsResponse backs the booking calendar: confirmed guests plus
// external bookings per show date.
type GuestCountsResponse struct {
	Counts map[string]int `json:"counts"`
}
