package dto

import (
	"marquee/internal/domains/poster/model"
	"marquee/shared"
	gDto "marquee/shared/dto"
	gModel "marquee/shared/model"
	"marquee/shared/timezone"

	"github.com/google/uuid"
)

type UploadPosterRequest struct {
	Title       string  `json:"title"        validate:"required,min=3,max=100"`
	ShowDate    *string `json:"show_date"    validate:"omitempty,datetime=2006-01-02"`
	FileName    string  `json:"file_name"    validate:"required,max=255"`
	ImageBase64 string  `json:"image_base64" validate:"required"`
}

func (c *UploadPosterRequest) ToModel(user, imageURL string) model.Poster {
	return model.Poster{
		ID:       uuid.NewString(),
		Title:    c.Title,
		ShowDate: c.ShowDate,
		ImageURL: imageURL,
		FileName: c.FileName,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdatePosterRequest struct {
	Title    string  `db:"title"     json:"title"     validate:"omitempty,min=3,max=100"`
	ShowDate *string `db:"show_date" json:"show_date" validate:"omitempty,datetime=2006-01-02"`
}

type PosterResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ShowDate *string `json:"show_date,omitempty"`
	ImageURL string  `json:"image_url"`
	FileName string  `json:"file_name"`
	gDto.Metadata
}

func (r *PosterResponse) FromModel(poster model.Poster) {
	r.ID = poster.ID
	r.Title = poster.Title
	r.ShowDate = poster.ShowDate
	r.ImageURL = poster.ImageURL
	r.FileName = poster.FileName
	r.Metadata.FromModel(poster.Metadata)
}

type GetPostersResponse struct {
	Posters   []PosterResponse `json:"posters"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetPostersResponse) FromModels(models []model.Poster, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Posters = make([]PosterResponse, len(models))
	for i, mod := range models {
		r.Posters[i].FromModel(mod)
	}
}
