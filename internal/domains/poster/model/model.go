package model

import "marquee/shared/model"

const (
	TableName  = "posters"
	EntityName = "poster"

	FieldID       = "id"
	FieldTitle    = "title"
	FieldShowDate = "show_date"
	FieldImageURL = "image_url"
	FieldFileName = "file_name"
)

type Poster struct {
	ID       string  `db:"id"`
	Title    string  `db:"title"`
	ShowDate *string `db:"show_date"`
	ImageURL string  `db:"image_url"`
	FileName string  `db:"file_name"`
	model.Metadata
}
