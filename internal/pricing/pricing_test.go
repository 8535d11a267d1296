package pricing_test

import (
	"testing"

	"marquee/internal/domains/settings/model"
	"marquee/internal/pricing"

	"github.com/stretchr/testify/assert"
)

func testDocument() model.Document {
	doc := model.Defaults()

	doc.ShowTypes = []model.ShowType{
		{ID: "classic", Name: "Classic Dinner Show", PriceStandardCents: 5000, PricePremiumCents: 7500, DefaultCapacity: 240},
	}
	doc.Merchandise = []model.MerchandiseItem{
		{ID: "tshirt", Name: "T-Shirt", PriceCents: 2000},
		{ID: "mug", Name: "Mug", PriceCents: 1000},
		{ID: "bitterballen", Name: "Bitterballen", PriceCents: 800, IsBorrel: true},
	}
	doc.Bundles = []model.Bundle{
		{ID: "fan", Name: "Fan Pack", BundlePriceCents: 2500, Items: map[string]int{"tshirt": 1, "mug": 1}},
	}
	doc.Prices = model.Prices{CapCents: 1500, PreShowDrinksCents: 950, AfterPartyCents: 1750}
	doc.PromoCodes = []model.PromoCode{
		{Code: "SAVE10", Type: model.PromoTypePercentage, Value: 10, IsActive: true},
		{Code: "FLAT25", Type: model.PromoTypeFixed, Value: 2500, IsActive: true},
		{Code: "OLD", Type: model.PromoTypeFixed, Value: 1000, IsActive: false},
	}

	return doc
}

func TestCalculate(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name         string
		draft        pricing.Draft
		wantSubtotal int64
	}{
		{
			name:         "base price standard package",
			draft:        pricing.Draft{ShowType: "classic", DrinkPackage: model.DrinkPackageStandard, Guests: 10},
			wantSubtotal: 50000,
		},
		{
			name:         "base price premium package",
			draft:        pricing.Draft{ShowType: "classic", DrinkPackage: model.DrinkPackagePremium, Guests: 10},
			wantSubtotal: 75000,
		},
		{
			name:         "unknown show type prices at zero",
			draft:        pricing.Draft{ShowType: "missing", DrinkPackage: model.DrinkPackageStandard, Guests: 10},
			wantSubtotal: 0,
		},
		{
			name: "surcharges below group threshold are ignored",
			draft: pricing.Draft{
				ShowType:      "classic",
				DrinkPackage:  model.DrinkPackageStandard,
				Guests:        24,
				PreShowDrinks: true,
				AfterParty:    true,
			},
			wantSubtotal: 24 * 5000,
		},
		{
			name: "surcharges at group threshold",
			draft: pricing.Draft{
				ShowType:      "classic",
				DrinkPackage:  model.DrinkPackageStandard,
				Guests:        25,
				PreShowDrinks: true,
				AfterParty:    true,
			},
			wantSubtotal: 25 * (5000 + 950 + 1750),
		},
		{
			name: "non-borrel merchandise is priced, borrel is not",
			draft: pricing.Draft{
				ShowType:     "classic",
				DrinkPackage: model.DrinkPackageStandard,
				Guests:       10,
				Addons:       map[string]int{"tshirt": 2, "bitterballen": 5},
			},
			wantSubtotal: 50000 + 2*2000,
		},
		{
			name: "cap slots priced uniformly per slot",
			draft: pricing.Draft{
				ShowType:     "classic",
				DrinkPackage: model.DrinkPackageStandard,
				Guests:       10,
				Addons:       map[string]int{"cap1": 2, "cap3": 1},
			},
			wantSubtotal: 50000 + 3*1500,
		},
		{
			name: "bundle discount is individual total minus bundle price",
			draft: pricing.Draft{
				ShowType:     "classic",
				DrinkPackage: model.DrinkPackageStandard,
				Guests:       10,
				Addons:       map[string]int{"tshirt": 1, "mug": 1, "bundle_fan": 1},
			},
			// members 2000+1000 priced individually, then 3000-2500 subtracted
			wantSubtotal: 50000 + 3000 - 500,
		},
		{
			name: "unknown bundle key is ignored",
			draft: pricing.Draft{
				ShowType:     "classic",
				DrinkPackage: model.DrinkPackageStandard,
				Guests:       10,
				Addons:       map[string]int{"bundle_nope": 1},
			},
			wantSubtotal: 50000,
		},
		{
			name: "zero and negative addon quantities are ignored",
			draft: pricing.Draft{
				ShowType:     "classic",
				DrinkPackage: model.DrinkPackageStandard,
				Guests:       10,
				Addons:       map[string]int{"tshirt": 0, "mug": -1, "cap1": 0},
			},
			wantSubtotal: 50000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := pricing.Calculate(tt.draft, doc)

			assert.Equal(t, tt.wantSubtotal, quote.SubtotalCents)
			assert.Equal(t, tt.wantSubtotal, quote.TotalCents)
			assert.Zero(t, quote.DiscountCents)
		})
	}
}

func TestCalculate_BundlePricedAboveMembers(t *testing.T) {
	doc := testDocument()
	doc.Bundles = []model.Bundle{
		{ID: "bad", BundlePriceCents: 9999, Items: map[string]int{"mug": 1}},
	}

	draft := pricing.Draft{
		ShowType:     "classic",
		DrinkPackage: model.DrinkPackageStandard,
		Guests:       10,
		Addons:       map[string]int{"mug": 1, "bundle_bad": 1},
	}

	quote := pricing.Calculate(draft, doc)

	// A bundle priced above its members never increases the subtotal.
	assert.Equal(t, int64(50000+1000), quote.SubtotalCents)
}

func TestResolvePromo(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name         string
		code         string
		subtotal     int64
		wantFound    bool
		wantDiscount int64
	}{
		{
			name:         "percentage promo, subtotal 500 euros gives 50 euros off",
			code:         "SAVE10",
			subtotal:     50000,
			wantFound:    true,
			wantDiscount: 5000,
		},
		{
			name:         "case-insensitive match",
			code:         "save10",
			subtotal:     50000,
			wantFound:    true,
			wantDiscount: 5000,
		},
		{
			name:         "fixed promo",
			code:         "FLAT25",
			subtotal:     50000,
			wantFound:    true,
			wantDiscount: 2500,
		},
		{
			name:         "fixed promo capped at subtotal",
			code:         "FLAT25",
			subtotal:     1000,
			wantFound:    true,
			wantDiscount: 1000,
		},
		{
			name:      "inactive promo not found",
			code:      "OLD",
			subtotal:  50000,
			wantFound: false,
		},
		{
			name:      "unknown code not found",
			code:      "NOPE",
			subtotal:  50000,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, found := pricing.ResolvePromo(tt.code, doc, tt.subtotal)

			assert.Equal(t, tt.wantFound, found)

			if tt.wantFound {
				assert.Equal(t, pricing.CodeKindPromo, applied.Kind)
				assert.Equal(t, tt.wantDiscount, applied.DiscountCents)
				assert.Empty(t, applied.Warning)
			}
		})
	}
}

func TestResolvePromo_Idempotent(t *testing.T) {
	doc := testDocument()

	first, _ := pricing.ResolvePromo("SAVE10", doc, 50000)
	second, _ := pricing.ResolvePromo("SAVE10", doc, 50000)

	assert.Equal(t, first, second)

	quote := pricing.Quote{SubtotalCents: 50000, TotalCents: 50000}
	quote = quote.WithDiscount(first)
	quote = quote.WithDiscount(second)

	assert.Equal(t, int64(5000), quote.DiscountCents)
	assert.Equal(t, int64(45000), quote.TotalCents)
}

func TestVoucherDiscount(t *testing.T) {
	t.Run("voucher above subtotal goes negative with warning", func(t *testing.T) {
		applied := pricing.VoucherDiscount("THTR-AAAA-BBBB", 10000, 6000)

		assert.Equal(t, pricing.CodeKindVoucher, applied.Kind)
		assert.Equal(t, int64(10000), applied.DiscountCents)
		assert.Equal(t, pricing.WarningUnusedValue, applied.Warning)

		quote := pricing.Quote{SubtotalCents: 6000, TotalCents: 6000}.WithDiscount(applied)

		assert.Equal(t, int64(-4000), quote.TotalCents)
		assert.Equal(t, pricing.WarningUnusedValue, quote.Warning)
	})

	t.Run("voucher below subtotal has no warning", func(t *testing.T) {
		applied := pricing.VoucherDiscount("THTR-AAAA-BBBB", 2500, 6000)

		assert.Empty(t, applied.Warning)

		quote := pricing.Quote{SubtotalCents: 6000, TotalCents: 6000}.WithDiscount(applied)

		assert.Equal(t, int64(3500), quote.TotalCents)
	})
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", pricing.NormalizeCode("  save10 "))
	assert.Equal(t, "THTR-AAAA-BBBB", pricing.NormalizeCode("thtr-aaaa-bbbb"))
	assert.Equal(t, "", pricing.NormalizeCode("   "))
}
