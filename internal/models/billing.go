package models

import "time"

// Company представляет компанию-контрагента счетов. Первичный ключ — NIF.
type Company struct {
	Nif     string `json:"nif"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Invoice представляет счёт клуба. Уникальность — пара (номер, серия).
type Invoice struct {
	Number         int        `json:"number"`
	Series         string     `json:"series"`
	SellerNif      string     `json:"seller_nif"`             // NIF компании-продавца
	BuyerNif       string     `json:"buyer_nif"`              // NIF компании-покупателя
	ExpeditionDate time.Time  `json:"expedition_date"`        // Дата выставления
	TaxExempt      bool       `json:"tax_exempt"`             // Освобождение от налога
	PaymentDate    *time.Time `json:"payment_date,omitempty"` // Дата оплаты, nil пока не оплачен
}

// DummyCompany используется для приёма данных компании из JSON-запроса.
type DummyCompany struct {
	Nif     string `json:"nif" validate:"required,alphanum"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// DummyInvoice используется для приёма данных счёта из JSON-запроса.
type DummyInvoice struct {
	Number         int    `json:"number" validate:"required,gt=0"`
	Series         string `json:"series" validate:"required"`
	SellerNif      string `json:"seller_nif" validate:"required,alphanum"`
	BuyerNif       string `json:"buyer_nif" validate:"required,alphanum"`
	ExpeditionDate string `json:"expedition_date" validate:"required"` // Формат 02-01-2006
	TaxExempt      bool   `json:"tax_exempt"`
}
