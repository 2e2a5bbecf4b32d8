// Package federate реализует конечный автомат федеративного статуса члена клуба.
//
// Состояния: NO_FEDERATE -> IN_PROGRESS -> FEDERATE -> NO_FEDERATE.
// Запись о федерировании связана с платежом взноса, пока состояние
// IN_PROGRESS или FEDERATE; переходы, создающие или удаляющие платёж,
// выполняются хранилищем в одной транзакции.
package federate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
	"github.com/magabrotheeeer/chessclub-membership/internal/services/payment"
)

// Repository определяет методы для работы с федеративными статусами в хранилище.
type Repository interface {
	// GetFederateState возвращает статус по DNI или models.ErrNotFound.
	GetFederateState(ctx context.Context, userDni string) (*models.FederateState, error)
	// UpdateFederateImages заменяет ключи изображений и дату обновления DNI.
	UpdateFederateImages(ctx context.Context, userDni, frontKey, backKey string) error
	// ToggleFederateAutoRenewal инвертирует флаг автопродления; только из FEDERATE.
	ToggleFederateAutoRenewal(ctx context.Context, userDni string) error
	// UpdateFederateState переводит запись из from в to; при несовпадении
	// текущего состояния с from возвращает models.ErrInvalidState.
	UpdateFederateState(ctx context.Context, userDni, from, to string) error
	// EnrollFederateWithPayment атомарно создаёт платёж и переводит запись в IN_PROGRESS.
	EnrollFederateWithPayment(ctx context.Context, userDni, frontKey, backKey string, autoRenewal bool, p *models.Payment) error
	// CancelFederateWithPayment атомарно переводит запись в NO_FEDERATE и удаляет платёж.
	CancelFederateWithPayment(ctx context.Context, userDni string) error
}

// UserRepository описывает доступ к пользователям, нужный автомату.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// ImageStore описывает внешнее хранилище изображений документов DNI.
type ImageStore interface {
	SaveImage(ctx context.Context, data []byte, side, userDni string) (string, error)
	LoadImage(ctx context.Context, key string) ([]byte, error)
	RemoveImage(ctx context.Context, key string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Стороны документа, передаваемые хранилищу изображений.
const (
	sideFront = "front"
	sideBack  = "back"
)

// confirmCancelNext — таблица переходов операции ConfirmCancel.
// Одна точка входа мультиплексирует подтверждение и отмену:
// из IN_PROGRESS запись подтверждается, из FEDERATE — отменяется.
// NO_FEDERATE в таблице отсутствует и для этой операции терминален.
var confirmCancelNext = map[string]string{
	models.FederateStateInProgress: models.FederateStateFederate,
	models.FederateStateFederate:   models.FederateStateNo,
}

// Service реализует операции федеративного автомата.
type Service struct {
	repo   Repository
	users  UserRepository
	images ImageStore
	cache  Cache
	log    *slog.Logger
}

// New создает новый Service.
func New(repo Repository, users UserRepository, images ImageStore, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		images: images,
		cache:  cache,
		log:    log,
	}
}

func cacheKey(dni string) string {
	return fmt.Sprintf("federate:%s", dni)
}

// Federate начинает федерирование члена клуба или обновляет его документы.
//
// Из NO_FEDERATE: сохраняет изображения, создаёт платёж взноса (15.00,
// FEDERATE_PAYMENT) и переводит запись в IN_PROGRESS одной транзакцией.
// Из FEDERATE: заменяет изображения на месте, состояние не меняется.
// Из IN_PROGRESS операция недопустима.
func (s *Service) Federate(ctx context.Context, email string, front, back []byte, autoRenewal bool) (*models.FederateState, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	fs, err := s.repo.GetFederateState(ctx, user.Dni)
	if err != nil {
		return nil, err
	}

	switch fs.State {
	case models.FederateStateInProgress:
		return nil, fmt.Errorf("federate state for %s already in progress: %w",
			user.Dni, models.ErrInvalidState)

	case models.FederateStateFederate:
		// Повторное федерирование действующего члена лишь обновляет документы.
		frontKey, backKey, err := s.saveImages(ctx, user.Dni, front, back)
		if err != nil {
			return nil, err
		}
		if err = s.repo.UpdateFederateImages(ctx, user.Dni, frontKey, backKey); err != nil {
			return nil, err
		}

	default: // NO_FEDERATE
		frontKey, backKey, err := s.saveImages(ctx, user.Dni, front, back)
		if err != nil {
			return nil, err
		}
		fee, err := payment.NewRecord(models.FederateFeeAmount, models.PaymentCategoryFederate,
			"Chess federation enrollment fee", "Federate payment", user.Dni)
		if err != nil {
			return nil, err
		}
		if err = s.repo.EnrollFederateWithPayment(ctx, user.Dni, frontKey, backKey, autoRenewal, fee); err != nil {
			return nil, err
		}
		s.log.Info("federate enrollment started",
			slog.String("user_dni", user.Dni),
			slog.String("payment_id", fee.ID))
	}

	s.invalidate(user.Dni)
	return s.repo.GetFederateState(ctx, user.Dni)
}

// ConfirmCancel выполняет переход по таблице confirmCancelNext:
// подтверждает федерирование из IN_PROGRESS или отменяет его из FEDERATE,
// удаляя связанный платёж. Из NO_FEDERATE возвращает ошибку.
func (s *Service) ConfirmCancel(ctx context.Context, dni string) (*models.FederateState, error) {
	fs, err := s.repo.GetFederateState(ctx, dni)
	if err != nil {
		return nil, err
	}
	next, ok := confirmCancelNext[fs.State]
	if !ok {
		return nil, fmt.Errorf("cannot change NO_FEDERATE status: %w", models.ErrInvalidState)
	}

	switch next {
	case models.FederateStateFederate:
		// Переход условный: если состояние уже изменила конкурентная
		// операция, хранилище вернёт ErrInvalidState и запись не тронет.
		if err = s.repo.UpdateFederateState(ctx, dni, fs.State, next); err != nil {
			return nil, err
		}
	case models.FederateStateNo:
		if err = s.repo.CancelFederateWithPayment(ctx, dni); err != nil {
			return nil, err
		}
		s.removeImages(ctx, dni, fs.FrontImageKey, fs.BackImageKey)
	}
	s.log.Info("federate state transition",
		slog.String("user_dni", dni),
		slog.String("from", fs.State),
		slog.String("to", next))

	s.invalidate(dni)
	return s.repo.GetFederateState(ctx, dni)
}

// ChangeAutoRenew переключает флаг автопродления; допустимо только из FEDERATE.
// Инверсия и проверка состояния выполняются одним оператором хранилища,
// чтобы конкурентные переключения не схлопывались в одно.
func (s *Service) ChangeAutoRenew(ctx context.Context, email string) (*models.FederateState, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err = s.repo.ToggleFederateAutoRenewal(ctx, user.Dni); err != nil {
		if errors.Is(err, models.ErrInvalidState) {
			return nil, fmt.Errorf("auto renewal toggle requires FEDERATE state: %w",
				models.ErrInvalidState)
		}
		return nil, err
	}
	s.invalidate(user.Dni)
	return s.repo.GetFederateState(ctx, user.Dni)
}

// UpdateDni заменяет изображения документов; допустимо только из FEDERATE.
func (s *Service) UpdateDni(ctx context.Context, email string, front, back []byte) (*models.FederateState, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	fs, err := s.repo.GetFederateState(ctx, user.Dni)
	if err != nil {
		return nil, err
	}
	if fs.State != models.FederateStateFederate {
		return nil, fmt.Errorf("dni update requires FEDERATE state, got %s: %w",
			fs.State, models.ErrInvalidState)
	}
	frontKey, backKey, err := s.saveImages(ctx, user.Dni, front, back)
	if err != nil {
		return nil, err
	}
	if err = s.repo.UpdateFederateImages(ctx, user.Dni, frontKey, backKey); err != nil {
		return nil, err
	}
	s.invalidate(user.Dni)
	return s.repo.GetFederateState(ctx, user.Dni)
}

// State возвращает федеративный статус пользователя, используя кеш.
func (s *Service) State(ctx context.Context, dni string) (*models.FederateState, error) {
	var cached *models.FederateState
	found, err := s.cache.Get(cacheKey(dni), &cached)
	if err == nil && found {
		return cached, nil
	}
	fs, err := s.repo.GetFederateState(ctx, dni)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey(dni), fs, time.Hour); err != nil {
		s.log.Warn("failed to cache federate state", slog.String("dni", dni), slog.Any("err", err))
	}
	return fs, nil
}

// DniImage возвращает изображение стороны документа DNI члена клуба.
// Используется правлением для проверки загруженных документов.
func (s *Service) DniImage(ctx context.Context, dni, side string) ([]byte, error) {
	fs, err := s.repo.GetFederateState(ctx, dni)
	if err != nil {
		return nil, err
	}
	var key string
	switch side {
	case sideFront:
		key = fs.FrontImageKey
	case sideBack:
		key = fs.BackImageKey
	default:
		return nil, fmt.Errorf("unknown dni side %q: %w", side, models.ErrValidation)
	}
	if key == "" {
		return nil, fmt.Errorf("no %s dni image for %s: %w", side, dni, models.ErrNotFound)
	}
	return s.images.LoadImage(ctx, key)
}

// saveImages сохраняет обе стороны документа; частично сохранённые
// изображения при последующем сбое транзакции просто перезаписываются
// следующей попыткой, платёж при этом не создаётся.
func (s *Service) saveImages(ctx context.Context, dni string, front, back []byte) (string, string, error) {
	frontKey, err := s.images.SaveImage(ctx, front, sideFront, dni)
	if err != nil {
		return "", "", err
	}
	backKey, err := s.images.SaveImage(ctx, back, sideBack, dni)
	if err != nil {
		return "", "", err
	}
	return frontKey, backKey, nil
}

// removeImages удаляет изображения DNI из объектного хранилища после отмены
// федерирования. Сбой не откатывает уже зафиксированный переход: осиротевший
// объект перезапишется при следующем федерировании.
func (s *Service) removeImages(ctx context.Context, dni string, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.images.RemoveImage(ctx, key); err != nil {
			s.log.Warn("failed to remove dni image",
				slog.String("user_dni", dni),
				slog.String("key", key),
				slog.Any("err", err))
		}
	}
}

func (s *Service) invalidate(dni string) {
	if err := s.cache.Invalidate(cacheKey(dni)); err != nil {
		s.log.Warn("failed to invalidate federate cache", slog.String("dni", dni), slog.Any("err", err))
	}
}
