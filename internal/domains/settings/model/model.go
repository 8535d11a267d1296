package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"marquee/shared/model"
)

const (
	TableName  = "app_settings"
	EntityName = "settings"

	FieldID       = "id"
	FieldDocument = "document"

	// SingletonID is the id of the only app_settings row.
	SingletonID = "default"

	PromoTypePercentage = "percentage"
	PromoTypeFixed      = "fixed"

	DrinkPackageStandard = "standard"
	DrinkPackagePremium  = "premium"
)

type ShowType struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	PriceStandardCents int64  `json:"price_standard_cents"`
	PricePremiumCents  int64  `json:"price_premium_cents"`
	DefaultCapacity    int    `json:"default_capacity"`
	Color              string `json:"color"`
}

type MerchandiseItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	IsBorrel   bool   `json:"is_borrel"`
}

// Bundle groups merchandise items under a single price. Items maps
// merchandise id to the quantity included in the bundle.
type Bundle struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	BundlePriceCents int64          `json:"bundle_price_cents"`
	Items            map[string]int `json:"items"`
}

type PromoCode struct {
	Code     string `json:"code"`
	Type     string `json:"type"`
	Value    int64  `json:"value"`
	IsActive bool   `json:"is_active"`
}

type Prices struct {
	CapCents           int64 `json:"cap_cents"`
	PreShowDrinksCents int64 `json:"pre_show_drinks_cents"`
	AfterPartyCents    int64 `json:"after_party_cents"`
}

type BookingSettings struct {
	MinGuests         int `json:"min_guests"`
	MaxGuests         int `json:"max_guests"`
	CutoffHours       int `json:"cutoff_hours"`
	CapacityThreshold int `json:"capacity_threshold"`
	GroupThreshold    int `json:"group_threshold"`
	ResponseHours     int `json:"response_hours"`
}

// Document is the whole settings document, stored as a single jsonb column.
// Updates replace the document wholesale; readers take a copy per computation.
type Document struct {
	ShowTypes   []ShowType        `json:"show_types"`
	Merchandise []MerchandiseItem `json:"merchandise"`
	Bundles     []Bundle          `json:"bundles"`
	CapSlogans  []string          `json:"cap_slogans"`
	Prices      Prices            `json:"prices"`
	Booking     BookingSettings   `json:"booking"`
	PromoCodes  []PromoCode       `json:"promo_codes"`
}

func (d Document) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *Document) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = Document{}
		return nil
	default:
		return fmt.Errorf("unsupported type for settings document: %T", src)
	}
}

func (d Document) ShowType(id string) (ShowType, bool) {
	for _, st := range d.ShowTypes {
		if st.ID == id {
			return st, true
		}
	}

	return ShowType{}, false
}

func (d Document) MerchandiseItem(id string) (MerchandiseItem, bool) {
	for _, item := range d.Merchandise {
		if item.ID == id {
			return item, true
		}
	}

	return MerchandiseItem{}, false
}

func (d Document) Bundle(id string) (Bundle, bool) {
	for _, b := range d.Bundles {
		if b.ID == id {
			return b, true
		}
	}

	return Bundle{}, false
}

// PromoCodeByCode matches case-insensitively against active and inactive codes.
func (d Document) PromoCodeByCode(code string) (PromoCode, bool) {
	for _, p := range d.PromoCodes {
		if strings.EqualFold(p.Code, code) {
			return p, true
		}
	}

	return PromoCode{}, false
}

// Defaults is the document seeded on first boot.
func Defaults() Document {
	return Document{
		ShowTypes: []ShowType{
			{ID: "classic", Name: "Classic Dinner Show", PriceStandardCents: 8950, PricePremiumCents: 10950, DefaultCapacity: 240, Color: "#1f6f8b"},
			{ID: "gala", Name: "Gala Night", PriceStandardCents: 11950, PricePremiumCents: 13950, DefaultCapacity: 240, Color: "#99254a"},
		},
		Merchandise: []MerchandiseItem{},
		Bundles:     []Bundle{},
		CapSlogans:  []string{},
		Prices: Prices{
			CapCents:           1500,
			PreShowDrinksCents: 950,
			AfterPartyCents:    1750,
		},
		Booking: BookingSettings{
			MinGuests:         10,
			MaxGuests:         240,
			CutoffHours:       12,
			CapacityThreshold: 240,
			GroupThreshold:    25,
			ResponseHours:     24,
		},
		PromoCodes: []PromoCode{},
	}
}

type Settings struct {
	ID       string   `db:"id"`
	Document Document `db:"document"`
	model.Metadata
}
