// Package member содержит бизнес-логику справочника членов клуба:
// принятие кандидатов, профиль, роли, смену вида членства и отписку.
package member

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chessclub-membership/internal/lib/sl"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
	"github.com/magabrotheeeer/chessclub-membership/internal/services/payment"
)

// Repository определяет методы для работы с пользователями в хранилище.
type Repository interface {
	GetUserByDni(ctx context.Context, dni string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateProfile(ctx context.Context, dni, name, surnames, gender string, birthDate time.Time) error
	UpdateEmail(ctx context.Context, dni, email string) error
	UpdatePassword(ctx context.Context, dni, passwordHash string) error
	UpdateKind(ctx context.Context, dni, kind string) error
	SetEnabled(ctx context.Context, dni string, enabled bool) error
	AddRole(ctx context.Context, dni, role string) error
	RemoveRole(ctx context.Context, dni, role string) error
	// ReplaceRoleAndInsertPayment атомарно меняет роль и создаёт платёж взноса.
	ReplaceRoleAndInsertPayment(ctx context.Context, dni, oldRole, newRole string, p *models.Payment) error
	DeleteUser(ctx context.Context, dni string) error
}

// Hasher хеширует пароли членов клуба.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(originalHash, externalPassword string) error
}

// Notifier публикует почтовые уведомления; сбой публикации не срывает операцию.
type Notifier interface {
	Notify(msg models.MemberNotification) error
}

// membershipFees — вступительный взнос по виду членства.
// Виды без записи в таблице взнос не платят.
var membershipFees = map[string]float64{
	models.KindSocioAspirante: models.MembershipFeeAspirante,
	models.KindSocioNumero:    models.MembershipFeeNumero,
}

// Service реализует операции справочника членов клуба.
type Service struct {
	repo     Repository
	hasher   Hasher
	notifier Notifier
	log      *slog.Logger
}

// New создает новый Service.
func New(repo Repository, hasher Hasher, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		notifier: notifier,
		log:      log,
	}
}

// AcceptUserAsMember принимает кандидата в члены клуба: единственная роль
// CANDIDATO_SOCIO заменяется на SOCIO, и по виду членства создаётся платёж
// вступительного взноса. Замена роли и платёж атомарны: если платёж не
// создан, смена роли не фиксируется.
func (s *Service) AcceptUserAsMember(ctx context.Context, dni string) (*models.User, error) {
	user, err := s.repo.GetUserByDni(ctx, dni)
	if err != nil {
		return nil, err
	}
	if len(user.Roles) != 1 || user.Roles[0] != models.RoleCandidatoSocio {
		return nil, fmt.Errorf("user %s is not a pending candidate: %w", dni, models.ErrInvalidState)
	}

	var fee *models.Payment
	if amount, ok := membershipFees[user.Kind]; ok {
		fee, err = payment.NewRecord(amount, models.PaymentCategoryMembership,
			"Membership fee", "Membership payment", dni)
		if err != nil {
			return nil, err
		}
	}

	if err = s.repo.ReplaceRoleAndInsertPayment(ctx, dni,
		models.RoleCandidatoSocio, models.RoleSocio, fee); err != nil {
		return nil, err
	}
	s.log.Info("candidate accepted as member", slog.String("dni", dni), slog.String("kind", user.Kind))

	if err = s.notifier.Notify(models.MemberNotification{
		Kind:  models.NotificationAccepted,
		Email: user.Email,
		Name:  user.Name,
	}); err != nil {
		s.log.Warn("failed to publish acceptance notification", sl.Err(err))
	}

	return s.repo.GetUserByDni(ctx, dni)
}

// Get возвращает пользователя по DNI.
func (s *Service) Get(ctx context.Context, dni string) (*models.User, error) {
	return s.repo.GetUserByDni(ctx, dni)
}

// GetByEmail возвращает пользователя по электронной почте.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

// List возвращает список пользователей с пагинацией.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}

// UpdateProfile обновляет профиль пользователя.
func (s *Service) UpdateProfile(ctx context.Context, dni string, req models.DummyProfile) error {
	birthDate, err := time.Parse("02-01-2006", req.BirthDate)
	if err != nil {
		return fmt.Errorf("invalid birth date: %w", models.ErrValidation)
	}
	return s.repo.UpdateProfile(ctx, dni, req.Name, req.Surnames, req.Gender, birthDate)
}

// ChangeEmail обновляет электронную почту пользователя.
func (s *Service) ChangeEmail(ctx context.Context, dni, email string) error {
	return s.repo.UpdateEmail(ctx, dni, email)
}

// ChangePassword проверяет текущий пароль и сохраняет хэш нового.
func (s *Service) ChangePassword(ctx context.Context, dni, currentPassword, newPassword string) error {
	user, err := s.repo.GetUserByDni(ctx, dni)
	if err != nil {
		return err
	}
	if err = s.hasher.Compare(user.PasswordHash, currentPassword); err != nil {
		return fmt.Errorf("current password mismatch: %w", models.ErrValidation)
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, dni, hash)
}

// ChangeKind меняет вид членства пользователя.
func (s *Service) ChangeKind(ctx context.Context, dni, kind string) error {
	switch kind {
	case models.KindSocioNumero, models.KindSocioAspirante,
		models.KindSocioHonorario, models.KindSocioFamiliar:
	default:
		return fmt.Errorf("unknown kind of member %q: %w", kind, models.ErrValidation)
	}
	return s.repo.UpdateKind(ctx, dni, kind)
}

// AddRole добавляет пользователю роль.
func (s *Service) AddRole(ctx context.Context, dni, role string) error {
	if _, err := s.repo.GetUserByDni(ctx, dni); err != nil {
		return err
	}
	return s.repo.AddRole(ctx, dni, role)
}

// RemoveRole удаляет роль пользователя.
func (s *Service) RemoveRole(ctx context.Context, dni, role string) error {
	if _, err := s.repo.GetUserByDni(ctx, dni); err != nil {
		return err
	}
	return s.repo.RemoveRole(ctx, dni, role)
}

// Unsubscribe мягко отключает учётную запись, данные не удаляются.
func (s *Service) Unsubscribe(ctx context.Context, dni string) error {
	return s.repo.SetEnabled(ctx, dni, false)
}

// Delete безвозвратно удаляет пользователя; только для административной очистки.
func (s *Service) Delete(ctx context.Context, dni string) error {
	return s.repo.DeleteUser(ctx, dni)
}
