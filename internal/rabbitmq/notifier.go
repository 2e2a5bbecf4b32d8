package rabbitmq

import (
	"github.com/streadway/amqp"

	librabbitmq "github.com/magabrotheeeer/chessclub-membership/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// Notifier публикует почтовые уведомления членам клуба в очередь уведомлений.
type Notifier struct {
	ch *amqp.Channel
}

// NewNotifier создает Notifier поверх открытого канала.
func NewNotifier(ch *amqp.Channel) *Notifier {
	return &Notifier{ch: ch}
}

// Notify публикует уведомление с ключом маршрутизации членских рассылок.
func (n *Notifier) Notify(msg models.MemberNotification) error {
	return librabbitmq.PublishJSON(n.ch, NotificationsExchange, MembershipRoutingKey, msg)
}
