package model

import (
	"crypto/rand"
	"math/big"

	"marquee/shared/model"
)

const (
	TableName  = "vouchers"
	EntityName = "voucher"

	FieldID                = "id"
	FieldCode              = "code"
	FieldValueCents        = "value_cents"
	FieldIssueDate         = "issue_date"
	FieldExpiryDate        = "expiry_date"
	FieldStatus            = "status"
	FieldExtendedCount     = "extended_count"
	FieldUsedDate          = "used_date"
	FieldUsedReservationID = "used_reservation_id"
	FieldArchivedDate      = "archived_date"
	FieldArchivedReason    = "archived_reason"
	FieldNotes             = "notes"

	StatusActive   = "active"
	StatusUsed     = "used"
	StatusExtended = "extended"
	StatusArchived = "archived"

	// StatusExpired is derived from the expiry date, never stored.
	StatusExpired = "expired"

	codePrefix  = "THTR"
	codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type Voucher struct {
	ID                string  `db:"id"`
	Code              string  `db:"code"`
	ValueCents        int64   `db:"value_cents"`
	IssueDate         string  `db:"issue_date"`
	ExpiryDate        string  `db:"expiry_date"`
	Status            string  `db:"status"`
	ExtendedCount     int     `db:"extended_count"`
	UsedDate          *string `db:"used_date"`
	UsedReservationID *string `db:"used_reservation_id"`
	ArchivedDate      *string `db:"archived_date"`
	ArchivedReason    *string `db:"archived_reason"`
	Notes             string  `db:"notes"`
	model.Metadata
}

// IsExpired compares ISO dates lexically; a voucher expires the day after
// its expiry date.
func (v Voucher) IsExpired(today string) bool {
	return v.ExpiryDate < today
}

// DerivedStatus overlays the stored status with the derived expired state.
// Used and archived win over expiry.
func (v Voucher) DerivedStatus(today string) string {
	if v.Status == StatusUsed || v.Status == StatusArchived {
		return v.Status
	}

	if v.IsExpired(today) {
		return StatusExpired
	}

	return v.Status
}

// Redeemable reports whether the voucher can still be applied to a
// reservation.
func (v Voucher) Redeemable(today string) bool {
	return v.Status != StatusUsed && v.Status != StatusArchived && !v.IsExpired(today)
}

// GenerateCode produces a voucher code of the form THTR-XXXX-XXXX, skipping
// ambiguous characters.
func GenerateCode() string {
	code := make([]byte, 0, 14)
	code = append(code, codePrefix...)

	for block := 0; block < 2; block++ {
		code = append(code, '-')

		for i := 0; i < 4; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
			if err != nil {
				// crypto/rand only fails when the platform source is broken
				code = append(code, codeCharset[0])

				continue
			}

			code = append(code, codeCharset[n.Int64()])
		}
	}

	return string(code)
}
