package models

// Виды почтовых уведомлений членам клуба.
const (
	NotificationWelcome  = "welcome"
	NotificationAccepted = "accepted"
)

// MemberNotification — сообщение почтового уведомления, публикуемое в RabbitMQ
// и потребляемое сервисом отправки писем.
type MemberNotification struct {
	Kind  string `json:"kind"` // NotificationWelcome или NotificationAccepted
	Email string `json:"email"`
	Name  string `json:"name"`
}
