package models

import "time"

// PaymentSheet представляет авансовый отчёт члена клуба о поездке
// (турнир, собрание федерации и т.п.).
type PaymentSheet struct {
	ID        int       `json:"id"`
	UserDni   string    `json:"user_dni"`
	Reason    string    `json:"reason"`
	Place     string    `json:"place"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// DummyPaymentSheet используется для приёма данных отчёта из JSON-запроса.
type DummyPaymentSheet struct {
	UserDni   string `json:"user_dni" validate:"required,alphanum"`
	Reason    string `json:"reason" validate:"required"`
	Place     string `json:"place" validate:"required"`
	StartDate string `json:"start_date" validate:"required"` // Формат 02-01-2006
	EndDate   string `json:"end_date" validate:"required"`
}
