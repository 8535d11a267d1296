package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"marquee/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID            = "id"
	FieldShowDate      = "show_date"
	FieldGuestName     = "guest_name"
	FieldGuestEmail    = "guest_email"
	FieldGuestPhone    = "guest_phone"
	FieldGuests        = "guests"
	FieldDrinkPackage  = "drink_package"
	FieldPreShowDrinks = "pre_show_drinks"
	FieldAfterParty    = "after_party"
	FieldAddons        = "addons"
	FieldPromoCode     = "promo_code"
	FieldSubtotalCents = "subtotal_cents"
	FieldDiscountCents = "discount_cents"
	FieldTotalCents    = "total_cents"
	FieldStatus        = "status"
	FieldCheckedIn     = "checked_in"
	FieldBookingSource = "booking_source"

	StatusProvisional = "provisional"
	StatusConfirmed   = "confirmed"
	StatusCancelled   = "cancelled"

	SourceInternal = "internal"
	SourceExternal = "external"
)

// AddonMap maps addon item ids to quantities, stored as jsonb. Bundle flags
// use `bundle_<id>` keys and cap slots use `cap<N>` keys.
type AddonMap map[string]int

func (a AddonMap) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(map[string]int{})
	}

	return json.Marshal(a)
}

func (a *AddonMap) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = AddonMap{}
		return nil
	default:
		return fmt.Errorf("unsupported type for addon map: %T", src)
	}
}

type Reservation struct {
	ID            string   `db:"id"`
	ShowDate      string   `db:"show_date"`
	GuestName     string   `db:"guest_name"`
	GuestEmail    string   `db:"guest_email"`
	GuestPhone    string   `db:"guest_phone"`
	Guests        int      `db:"guests"`
	DrinkPackage  string   `db:"drink_package"`
	PreShowDrinks bool     `db:"pre_show_drinks"`
	AfterParty    bool     `db:"after_party"`
	Addons        AddonMap `db:"addons"`
	PromoCode     *string  `db:"promo_code"`
	SubtotalCents int64    `db:"subtotal_cents"`
	DiscountCents int64    `db:"discount_cents"`
	TotalCents    int64    `db:"total_cents"`
	Status        string   `db:"status"`
	CheckedIn     bool     `db:"checked_in"`
	BookingSource string   `db:"booking_source"`
	model.Metadata
}

// ValidTransition enforces the reservation lifecycle: provisional may be
// confirmed or cancelled, confirmed may still be cancelled, cancelled is
// terminal. A no-op transition is not valid.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusProvisional:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	default:
		return false
	}
}
