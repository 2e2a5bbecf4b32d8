package models

import "time"

// Категории платежей.
const (
	PaymentCategoryMembership = "MEMBERSHIP_PAYMENT"
	PaymentCategoryFederate   = "FEDERATE_PAYMENT"
	PaymentCategoryOther      = "OTHER_PAYMENT"
)

// Состояния платежа. Переходы однонаправленные:
// UNPAID -> PAID, UNPAID -> CANCELLED, PAID -> CANCELLED.
const (
	PaymentStateUnpaid    = "UNPAID"
	PaymentStatePaid      = "PAID"
	PaymentStateCancelled = "CANCELLED"
)

// Бизнес-ограничения на сумму платежа в евро.
// Верхняя граница — осознанное правило клуба, не артефакт форматирования.
const (
	PaymentMaxAmount = 100.0

	// FederateFeeAmount — фиксированный взнос за федерирование.
	FederateFeeAmount = 15.0
	// MembershipFeeAspirante — вступительный взнос для SOCIO_ASPIRANTE.
	MembershipFeeAspirante = 20.0
	// MembershipFeeNumero — вступительный взнос для SOCIO_NUMERO.
	MembershipFeeNumero = 40.0
)

// Payment представляет денежную запись в книге платежей клуба.
type Payment struct {
	ID          string     `json:"id"`                // UUID платежа
	Amount      float64    `json:"amount"`            // Сумма, 0 < Amount <= PaymentMaxAmount
	Category    string     `json:"category"`          // Категория (PaymentCategory*)
	Title       string     `json:"title"`             // Заголовок
	Description string     `json:"description"`       // Описание
	UserDni     string     `json:"user_dni"`          // DNI плательщика
	State       string     `json:"state"`             // Состояние (PaymentState*)
	CreatedAt   time.Time  `json:"created_at"`        // Дата создания записи
	PaidAt      *time.Time `json:"paid_at,omitempty"` // Дата оплаты, nil пока не оплачен
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
type DummyPayment struct {
	Amount      float64 `json:"amount" validate:"required"`
	Category    string  `json:"category" validate:"required,oneof=MEMBERSHIP_PAYMENT FEDERATE_PAYMENT OTHER_PAYMENT"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	UserDni     string  `json:"user_dni" validate:"required,alphanum"`
}

// DummyMakePayment используется для приёма даты оплаты.
type DummyMakePayment struct {
	PaymentDate string `json:"payment_date" validate:"required"` // Формат 02-01-2006
}
