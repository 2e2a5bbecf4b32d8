// Package smtp предоставляет транспорт почтовых уведомлений клуба.
// Интерфейсы повторяют цепочку net/smtp (Mail -> Rcpt -> Data -> Quit),
// чтобы сервис отправки можно было тестировать без почтового сервера.
package smtp

import "io"

// Client интерфейс для SMTP клиента.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface интерфейс для SMTP транспорта уведомлений.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
