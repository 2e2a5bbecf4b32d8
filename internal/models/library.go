package models

import "time"

// Book представляет книгу из библиотеки клуба. Первичный ключ — ISBN.
type Book struct {
	Isbn        string    `json:"isbn"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Language    string    `json:"language"`
	PublishDate time.Time `json:"publish_date"`
}

// Magazine представляет журнал из библиотеки клуба. Первичный ключ — ISSN.
type Magazine struct {
	Issn          string    `json:"issn"`
	Title         string    `json:"title"`
	Publisher     string    `json:"publisher"`
	EditionNumber int       `json:"edition_number"`
	PublishDate   time.Time `json:"publish_date"`
}

// DummyBook используется для приёма данных книги из JSON-запроса.
type DummyBook struct {
	Isbn        string `json:"isbn" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Language    string `json:"language" validate:"required"`
	PublishDate string `json:"publish_date" validate:"required"` // Формат 02-01-2006
}

// DummyMagazine используется для приёма данных журнала из JSON-запроса.
type DummyMagazine struct {
	Issn          string `json:"issn" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Publisher     string `json:"publisher" validate:"required"`
	EditionNumber int    `json:"edition_number" validate:"required,gt=0"`
	PublishDate   string `json:"publish_date" validate:"required"`
}
