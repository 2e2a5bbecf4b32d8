package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/chessclub-membership/internal/lib/sl"
)

// maxInFlight ограничивает число одновременно обрабатываемых уведомлений:
// каждое уведомление открывает SMTP-соединение, и почтовый сервер клуба
// не переживает большего параллелизма.
const maxInFlight = 10

// ConsumeNotifications читает очередь почтовых уведомлений и передаёт тело
// каждого сообщения обработчику. Ошибка обработчика возвращает сообщение
// в очередь (nack + requeue); успешная обработка подтверждается ack.
func ConsumeNotifications(ctx context.Context, ch *amqp.Channel, queueName string, log *slog.Logger, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumeNotifications"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(delivery amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(delivery.Body); err != nil {
						if nackErr := delivery.Nack(false, true); nackErr != nil {
							log.Error("failed to nack notification", sl.Err(nackErr))
						}
						return
					}
					if ackErr := delivery.Ack(false); ackErr != nil {
						log.Error("failed to ack notification", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
