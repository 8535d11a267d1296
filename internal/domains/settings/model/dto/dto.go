package dto

import (
	"marquee/internal/domains/settings/model"
	gDto "marquee/shared/dto"
)

// UpdateSettingsRequest replaces the whole settings document.
type UpdateSettingsRequest struct {
	Document model.Document `db:"document" json:"document" validate:"required"`
}

type SettingsResponse struct {
	Document model.Document `json:"document"`
	gDto.Metadata
}

func (r *SettingsResponse) FromModel(settings model.Settings) {
	r.Document = settings.Document
	r.Metadata.FromModel(settings.Metadata)
}
