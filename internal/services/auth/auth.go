// Package auth содержит логику регистрации, входа и валидации JWT.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chessclub-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/sl"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет пользователя вместе с ролями и федеративным статусом.
	RegisterUser(ctx context.Context, user models.User) error
	// GetUserByEmail возвращает пользователя по почте или models.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Hasher хеширует и проверяет пароли.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(originalHash, externalPassword string) error
}

// Notifier публикует приветственное письмо новому кандидату.
type Notifier interface {
	Notify(msg models.MemberNotification) error
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	hasher   Hasher
	notifier Notifier
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый Service.
func New(users UserRepository, hasher Hasher, notifier Notifier, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		notifier: notifier,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя с ролью кандидата и начальным
// федеративным статусом NO_FEDERATE, затем публикует приветственное письмо.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (*models.User, error) {
	birthDate, err := time.Parse("02-01-2006", req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("invalid birth date: %w", models.ErrValidation)
	}
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Dni:          req.Dni,
		Email:        req.Email,
		PasswordHash: hashed,
		Name:         req.Name,
		Surnames:     req.Surnames,
		BirthDate:    birthDate,
		Gender:       req.Gender,
		Kind:         req.Kind,
		Enabled:      true,
		Roles:        []string{models.RoleCandidatoSocio}, // роль кандидата до принятия в члены
	}
	if err = s.users.RegisterUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("registered new candidate", slog.String("dni", user.Dni))

	if err = s.notifier.Notify(models.MemberNotification{
		Kind:  models.NotificationWelcome,
		Email: user.Email,
		Name:  user.Name,
	}); err != nil {
		s.log.Warn("failed to publish welcome notification", sl.Err(err))
	}
	return &user, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Отключённые учётные записи не допускаются.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if !user.Enabled {
		return "", nil, fmt.Errorf("account disabled: %w", models.ErrInvalidState)
	}
	if err := s.hasher.Compare(user.PasswordHash, rawPassword); err != nil {
		return "", nil, errors.New("invalid credentials")
	}
	token, err := s.jwtMaker.GenerateToken(user.Dni, user.Email, user.Roles)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает данные пользователя из claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
