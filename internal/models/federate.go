package models

import "time"

// Состояния федеративного статуса члена клуба.
const (
	FederateStateNo         = "NO_FEDERATE"
	FederateStateInProgress = "IN_PROGRESS"
	FederateStateFederate   = "FEDERATE"
)

// FederateState описывает состояние записи члена клуба в шахматной федерации.
// Связь с User строго один к одному по DNI.
//
// Инвариант: PaymentID заполнен тогда и только тогда, когда
// State равен IN_PROGRESS или FEDERATE; при NO_FEDERATE он nil.
type FederateState struct {
	UserDni       string    // DNI владельца, первичный ключ
	State         string    // Текущее состояние (FederateState*)
	AutoRenewal   bool      // Автоматическое продление
	DniLastUpdate time.Time // Дата последнего обновления документов DNI
	FrontImageKey string    // Ключ изображения лицевой стороны DNI в объектном хранилище
	BackImageKey  string    // Ключ изображения обратной стороны DNI
	PaymentID     *string   // ID связанного платежа, nil при NO_FEDERATE
}

// DummyFederate используется для приёма запроса на федерирование.
// Изображения приходят отдельными полями multipart-формы, не в JSON.
type DummyFederate struct {
	AutoRenewal bool `json:"auto_renewal"`
}
