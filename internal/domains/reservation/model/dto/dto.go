package dto

import (
	"marquee/internal/domains/reservation/model"
	"marquee/internal/pricing"
	"marquee/shared"
	gDto "marquee/shared/dto"
	gModel "marquee/shared/model"
	"marquee/shared/timezone"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ShowDate      string         `json:"show_date"       validate:"required,datetime=2006-01-02"`
	GuestName     string         `json:"guest_name"      validate:"required,max=100"`
	GuestEmail    string         `json:"guest_email"     validate:"required,email"`
	GuestPhone    string         `json:"guest_phone"     validate:"omitempty,max=30"`
	Guests        int            `json:"guests"          validate:"required,min=1"`
	DrinkPackage  string         `json:"drink_package"   validate:"required,oneof=standard premium"`
	PreShowDrinks bool           `json:"pre_show_drinks"`
	AfterParty    bool           `json:"after_party"`
	Addons        map[string]int `json:"addons"          validate:"omitempty"`
	Code          string         `json:"code"            validate:"omitempty,max=50"`
}

func (c *CreateReservationRequest) ToModel(user string, quote pricing.Quote, promoCode *string) model.Reservation {
	addons := model.AddonMap{}
	for key, qty := range c.Addons {
		addons[key] = qty
	}

	return model.Reservation{
		ID:            uuid.NewString(),
		ShowDate:      c.ShowDate,
		GuestName:     c.GuestName,
		GuestEmail:    c.GuestEmail,
		GuestPhone:    c.GuestPhone,
		Guests:        c.Guests,
		DrinkPackage:  c.DrinkPackage,
		PreShowDrinks: c.PreShowDrinks,
		AfterParty:    c.AfterParty,
		Addons:        addons,
		PromoCode:     promoCode,
		SubtotalCents: quote.SubtotalCents,
		DiscountCents: quote.DiscountCents,
		TotalCents:    quote.TotalCents,
		Status:        model.StatusProvisional,
		BookingSource: model.SourceInternal,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// QuoteReservationRequest prices a draft without persisting anything. Same
// shape as the create payload minus the contact details.
type QuoteReservationRequest struct {
	ShowDate      string         `json:"show_date"       validate:"required,datetime=2006-01-02"`
	Guests        int            `json:"guests"          validate:"required,min=1"`
	DrinkPackage  string         `json:"drink_package"   validate:"required,oneof=standard premium"`
	PreShowDrinks bool           `json:"pre_show_drinks"`
	AfterParty    bool           `json:"after_party"`
	Addons        map[string]int `json:"addons"          validate:"omitempty"`
	Code          string         `json:"code"            validate:"omitempty,max=50"`
}

type QuoteReservationResponse struct {
	SubtotalCents int64  `json:"subtotal_cents"`
	DiscountCents int64  `json:"discount_cents"`
	TotalCents    int64  `json:"total_cents"`
	AppliedCode   string `json:"applied_code,omitempty"`
	CodeKind      string `json:"code_kind,omitempty"`
	Warning       string `json:"warning,omitempty"`
}

type UpdateReservationRequest struct {
	GuestName     string         `db:"guest_name"      json:"guest_name"      validate:"omitempty,max=100"`
	GuestEmail    string         `db:"guest_email"     json:"guest_email"     validate:"omitempty,email"`
	GuestPhone    string         `db:"guest_phone"     json:"guest_phone"     validate:"omitempty,max=30"`
	Guests        int            `db:"guests"          json:"guests"          validate:"omitempty,min=1"`
	DrinkPackage  string         `db:"drink_package"   json:"drink_package"   validate:"omitempty,oneof=standard premium"`
	PreShowDrinks *bool          `db:"pre_show_drinks" json:"pre_show_drinks" validate:"omitempty"`
	AfterParty    *bool          `db:"after_party"     json:"after_party"     validate:"omitempty"`
	Addons        map[string]int `json:"addons"                               validate:"omitempty"`
}

type SetReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

type ReservationResponse struct {
	ID            string         `json:"id"`
	ShowDate      string         `json:"show_date"`
	GuestName     string         `json:"guest_name"`
	GuestEmail    string         `json:"guest_email"`
	GuestPhone    string         `json:"guest_phone"`
	Guests        int            `json:"guests"`
	DrinkPackage  string         `json:"drink_package"`
	PreShowDrinks bool           `json:"pre_show_drinks"`
	AfterParty    bool           `json:"after_party"`
	Addons        map[string]int `json:"addons"`
	PromoCode     *string        `json:"promo_code,omitempty"`
	SubtotalCents int64          `json:"subtotal_cents"`
	DiscountCents int64          `json:"discount_cents"`
	TotalCents    int64          `json:"total_cents"`
	Status        string         `json:"status"`
	CheckedIn     bool           `json:"checked_in"`
	BookingSource string         `json:"booking_source"`
	Warning       string         `json:"warning,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(reservation model.Reservation) {
	r.ID = reservation.ID
	r.ShowDate = reservation.ShowDate
	r.GuestName = reservation.GuestName
	r.GuestEmail = reservation.GuestEmail
	r.GuestPhone = reservation.GuestPhone
	r.Guests = reservation.Guests
	r.DrinkPackage = reservation.DrinkPackage
	r.PreShowDrinks = reservation.PreShowDrinks
	r.AfterParty = reservation.AfterParty
	r.Addons = reservation.Addons
	r.PromoCode = reservation.PromoCode
	r.SubtotalCents = reservation.SubtotalCents
	r.DiscountCents = reservation.DiscountCents
	r.TotalCents = reservation.TotalCents
	r.Status = reservation.Status
	r.CheckedIn = reservation.CheckedIn
	r.BookingSource = reservation.BookingSource
	r.Metadata.FromModel(reservation.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
