package models

import "time"

// TournamentParticipant представляет участника турнира клуба.
// Первичный ключ — идентификатор FIDE.
type TournamentParticipant struct {
	FideID    int64     `json:"fide_id"`
	Name      string    `json:"name"`
	Club      string    `json:"club"`
	BirthDate time.Time `json:"birth_date"`
	Category  string    `json:"category"`
	Byes      string    `json:"byes"` // Номера туров, пропускаемых по заявке, через запятую
}

// DummyTournamentParticipant используется для приёма данных участника из JSON-запроса.
type DummyTournamentParticipant struct {
	FideID    int64  `json:"fide_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required"`
	Club      string `json:"club" validate:"required"`
	BirthDate string `json:"birth_date" validate:"required"` // Формат 02-01-2006
	Category  string `json:"category" validate:"required"`
	Byes      string `json:"byes"`
}
