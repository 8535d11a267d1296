package dto

import (
	"marquee/internal/domains/voucher/model"
	"marquee/shared"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	gModel "marquee/shared/model"
	"marquee/shared/timezone"

	"github.com/google/uuid"
)

type IssueVoucherRequest struct {
	ValueCents int64  `json:"value_cents" validate:"required,min=1"`
	ExpiryDate string `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	Notes      string `json:"notes"       validate:"omitempty,max=500"`
}

func (c *IssueVoucherRequest) ToModel(user string) model.Voucher {
	return model.Voucher{
		ID:         uuid.NewString(),
		Code:       model.GenerateCode(),
		ValueCents: c.ValueCents,
		IssueDate:  timezone.Now().Format(constant.ShowDateFormat),
		ExpiryDate: c.ExpiryDate,
		Status:     model.StatusActive,
		Notes:      c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateVoucherRequest struct {
	Notes string `db:"notes" json:"notes" validate:"omitempty,max=500"`
}

type ExtendVoucherRequest struct {
	ExpiryDate string `json:"expiry_date" validate:"required,datetime=2006-01-02"`
}

type ArchiveVoucherRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type VoucherResponse struct {
	ID                string  `json:"id"`
	Code              string  `json:"code"`
	ValueCents        int64   `json:"value_cents"`
	IssueDate         string  `json:"issue_date"`
	ExpiryDate        string  `json:"expiry_date"`
	Status            string  `json:"status"`
	ExtendedCount     int     `json:"extended_count"`
	UsedDate          *string `json:"used_date,omitempty"`
	UsedReservationID *string `json:"used_reservation_id,omitempty"`
	ArchivedDate      *string `json:"archived_date,omitempty"`
	ArchivedReason    *string `json:"archived_reason,omitempty"`
	Notes             string  `json:"notes"`
	gDto.Metadata
}

func (r *VoucherResponse) FromModel(voucher model.Voucher) {
	r.ID = voucher.ID
	r.Code = voucher.Code
	r.ValueCents = voucher.ValueCents
	r.IssueDate = voucher.IssueDate
	r.ExpiryDate = voucher.ExpiryDate
	r.Status = voucher.DerivedStatus(timezone.Now().Format(constant.ShowDateFormat))
	r.ExtendedCount = voucher.ExtendedCount
	r.UsedDate = voucher.UsedDate
	r.UsedReservationID = voucher.UsedReservationID
	r.ArchivedDate = voucher.ArchivedDate
	r.ArchivedReason = voucher.ArchivedReason
	r.Notes = voucher.Notes
	r.Metadata.FromModel(voucher.Metadata)
}

type GetVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVouchersResponse) FromModels(models []model.Voucher, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Vouchers = make([]VoucherResponse, len(models))
	for i, mod := range models {
		r.Vouchers[i].FromModel(mod)
	}
}
