package pricing

import (
	"strings"

	"marquee/internal/domains/settings/model"
)

// CodeKind tells the reservation service which side effects redemption needs.
type CodeKind string

const (
	CodeKindPromo   CodeKind = "promo"
	CodeKindVoucher CodeKind = "voucher"
)

const WarningUnusedValue = "voucher value exceeds order total; the remainder is forfeited"

// AppliedCode is a resolved discount code ready to be applied to a quote.
// Only one code applies at a time; resolving a new one replaces the old.
type AppliedCode struct {
	Kind          CodeKind
	Code          string
	DiscountCents int64
	Warning       string
}

// NormalizeCode canonicalizes user input before lookup.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ResolvePromo matches an active promo code from the settings document.
// Percentage discounts round down. Every promo discount is capped at the
// subtotal so a promo can never push the total negative.
func ResolvePromo(code string, doc model.Document, subtotalCents int64) (AppliedCode, bool) {
	promo, ok := doc.PromoCodeByCode(code)
	if !ok || !promo.IsActive {
		return AppliedCode{}, false
	}

	var discount int64

	switch promo.Type {
	case model.PromoTypePercentage:
		discount = subtotalCents * promo.Value / 100
	case model.PromoTypeFixed:
		discount = promo.Value
	default:
		return AppliedCode{}, false
	}

	if discount > subtotalCents {
		discount = subtotalCents
	}

	if discount < 0 {
		discount = 0
	}

	return AppliedCode{
		Kind:          CodeKindPromo,
		Code:          promo.Code,
		DiscountCents: discount,
	}, true
}

// VoucherDiscount applies a voucher's full value. Unlike promos the discount
// is not capped: the total may go negative, and the caller surfaces the
// unused-value warning when the voucher is worth more than the order.
func VoucherDiscount(code string, valueCents, subtotalCents int64) AppliedCode {
	applied := AppliedCode{
		Kind:          CodeKindVoucher,
		Code:          code,
		DiscountCents: valueCents,
	}

	if subtotalCents < valueCents {
		applied.Warning = WarningUnusedValue
	}

	return applied
}
