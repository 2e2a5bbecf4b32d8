// Package rabbitmq содержит публикацию сообщений в RabbitMQ.
package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// appID помечает публикации, чтобы в очереди уведомлений можно было
// отличить сообщения бэкенда клуба от сторонних производителей.
const appID = "chessclub-membership"

// PublishJSON сериализует сообщение в JSON и публикует его с признаком
// Persistent: уведомления о регистрации и приёме в члены не должны
// теряться при перезапуске брокера.
func PublishJSON(ch *amqp.Channel, exchange, routingKey string, message any) error {
	const op = "rabbitmq.PublishJSON"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			AppId:        appID,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
