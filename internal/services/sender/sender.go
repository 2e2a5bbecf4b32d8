// Package sender отправляет почтовые уведомления членам клуба.
// Сообщения приходят из очереди RabbitMQ и рассылаются по SMTP.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/chessclub-membership/internal/lib/sl"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/smtp"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// Service потребляет уведомления и отправляет письма членам клуба.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// HandleNotification разбирает тело сообщения из очереди и отправляет
// письмо соответствующего вида. Тексты писем — на языке клуба.
func (s *Service) HandleNotification(body []byte) error {
	var msg models.MemberNotification
	if err := json.Unmarshal(body, &msg); err != nil {
		// Кривое тело не станет валидным при повторной доставке:
		// подтверждаем сообщение, иначе оно будет крутиться в очереди вечно.
		s.log.Error("failed to unmarshal notification body, dropping message", sl.Err(err))
		return nil
	}

	var subject, bodyText string
	switch msg.Kind {
	case models.NotificationWelcome:
		subject = "Bienvenido al club de ajedrez"
		bodyText = fmt.Sprintf("Hola, %s!\n\nHemos recibido tu solicitud de ingreso en el club.\nLa junta directiva la revisará y te avisaremos cuando seas aceptado como socio.\n\nUn saludo,\nEl club de ajedrez", msg.Name)
	case models.NotificationAccepted:
		subject = "Ya eres socio del club de ajedrez"
		bodyText = fmt.Sprintf("Hola, %s!\n\nTu solicitud ha sido aceptada: ya eres socio del club.\nSi tu tipo de socio lo requiere, encontrarás la cuota de ingreso entre tus pagos pendientes.\n\nUn saludo,\nEl club de ajedrez", msg.Name)
	default:
		s.log.Warn("unknown notification kind, dropping message", slog.String("kind", msg.Kind))
		return nil
	}

	if err := s.sendEmail([]string{msg.Email}, subject, bodyText); err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	return nil
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
