// Package pricing computes reservation prices from the settings document.
// All amounts are euro cents. The package is pure: no I/O, no clock.
package pricing

import (
	"regexp"
	"strings"

	"marquee/internal/domains/settings/model"
)

const bundleKeyPrefix = "bundle_"

var capSlotKey = regexp.MustCompile(`^cap\d+$`)

// Draft carries the price-relevant fields of a reservation request.
type Draft struct {
	ShowType      string
	DrinkPackage  string
	Guests        int
	PreShowDrinks bool
	AfterParty    bool
	Addons        map[string]int
}

// Quote is the result of pricing a draft. TotalCents may be negative when a
// voucher exceeds the subtotal; the excess is forfeited, never paid out.
type Quote struct {
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
	Warning       string
}

// Calculate prices a draft against the settings document. Discounts are
// applied separately via WithDiscount once the code has been resolved.
func Calculate(draft Draft, doc model.Document) Quote {
	guests := int64(draft.Guests)

	var subtotal int64

	if showType, ok := doc.ShowType(draft.ShowType); ok {
		perPerson := showType.PriceStandardCents
		if draft.DrinkPackage == model.DrinkPackagePremium {
			perPerson = showType.PricePremiumCents
		}

		subtotal += perPerson * guests
	}

	// Group surcharges only apply from the group threshold upward, even when
	// the toggle slipped through on a smaller party.
	if draft.Guests >= doc.Booking.GroupThreshold {
		if draft.PreShowDrinks {
			subtotal += doc.Prices.PreShowDrinksCents * guests
		}

		if draft.AfterParty {
			subtotal += doc.Prices.AfterPartyCents * guests
		}
	}

	var capCount int64

	for key, qty := range draft.Addons {
		if qty <= 0 {
			continue
		}

		if strings.HasPrefix(key, bundleKeyPrefix) {
			continue
		}

		if capSlotKey.MatchString(key) {
			capCount += int64(qty)

			continue
		}

		if item, ok := doc.MerchandiseItem(key); ok && !item.IsBorrel {
			subtotal += item.PriceCents * int64(qty)
		}
	}

	subtotal += capCount * doc.Prices.CapCents

	// Bundle keys act as flags: the member items are already priced at their
	// individual rates above, so the bundle contributes only its discount.
	for key, qty := range draft.Addons {
		if qty <= 0 || !strings.HasPrefix(key, bundleKeyPrefix) {
			continue
		}

		bundle, ok := doc.Bundle(strings.TrimPrefix(key, bundleKeyPrefix))
		if !ok {
			continue
		}

		subtotal -= bundleDiscount(bundle, doc)
	}

	return Quote{
		SubtotalCents: subtotal,
		TotalCents:    subtotal,
	}
}

// bundleDiscount is the gap between the members priced individually and the
// bundle price, clamped so a mispriced bundle never increases the subtotal.
func bundleDiscount(bundle model.Bundle, doc model.Document) int64 {
	var individualTotal int64

	for itemID, qty := range bundle.Items {
		if qty <= 0 {
			continue
		}

		if item, ok := doc.MerchandiseItem(itemID); ok {
			individualTotal += item.PriceCents * int64(qty)
		}
	}

	discount := individualTotal - bundle.BundlePriceCents
	if discount < 0 {
		return 0
	}

	return discount
}

// WithDiscount applies a resolved code to the quote. Replaces any previously
// applied discount, so re-applying a code is idempotent.
func (q Quote) WithDiscount(code AppliedCode) Quote {
	q.DiscountCents = code.DiscountCents
	q.TotalCents = q.SubtotalCents - code.DiscountCents
	q.Warning = code.Warning

	return q
}
