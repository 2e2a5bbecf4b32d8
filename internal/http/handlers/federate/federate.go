// Package federate реализует HTTP-обработчики федеративного статуса члена клуба.
//
// Изображения документов DNI приходят полями multipart-формы front_image и
// back_image; остальные операции работают с JSON.
package federate

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chessclub-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chessclub-membership/internal/http/response"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/sl"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// Предел размера multipart-формы с изображениями DNI.
const maxUploadSize = 10 << 20

// Service описывает интерфейс бизнес-логики федеративного автомата.
type Service interface {
	Federate(ctx context.Context, email string, front, back []byte, autoRenewal bool) (*models.FederateState, error)
	ConfirmCancel(ctx context.Context, dni string) (*models.FederateState, error)
	ChangeAutoRenew(ctx context.Context, email string) (*models.FederateState, error)
	UpdateDni(ctx context.Context, email string, front, back []byte) (*models.FederateState, error)
	State(ctx context.Context, dni string) (*models.FederateState, error)
	DniImage(ctx context.Context, dni, side string) ([]byte, error)
}

// stateView — JSON-представление федеративного статуса.
type stateView struct {
	UserDni       string  `json:"user_dni"`
	State         string  `json:"state"`
	AutoRenewal   bool    `json:"auto_renewal"`
	DniLastUpdate string  `json:"dni_last_update"`
	PaymentID     *string `json:"payment_id,omitempty"`
}

func toView(fs *models.FederateState) stateView {
	return stateView{
		UserDni:       fs.UserDni,
		State:         fs.State,
		AutoRenewal:   fs.AutoRenewal,
		DniLastUpdate: fs.DniLastUpdate.Format("02-01-2006"),
		PaymentID:     fs.PaymentID,
	}
}

// readImages извлекает обе стороны документа из multipart-формы.
func readImages(r *http.Request) (front, back []byte, err error) {
	if err = r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, nil, err
	}
	front, err = readFormFile(r, "front_image")
	if err != nil {
		return nil, nil, err
	}
	back, err = readFormFile(r, "back_image")
	if err != nil {
		return nil, nil, err
	}
	return front, back, nil
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer func(f multipart.File) {
		_ = f.Close()
	}(file)
	return io.ReadAll(file)
}

// EnrollHandler обрабатывает запросы на федерирование члена клуба.
type EnrollHandler struct {
	log     *slog.Logger
	service Service
}

// NewEnroll создает новый EnrollHandler.
func NewEnroll(log *slog.Logger, service Service) *EnrollHandler {
	return &EnrollHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Федерировать члена клуба
// @Description Из NO_FEDERATE создаёт платёж взноса и переводит статус в IN_PROGRESS; из FEDERATE обновляет документы
// @Tags Federate
// @Accept  mpfd
// @Produce  json
// @Param front_image formData file true "Лицевая сторона DNI"
// @Param back_image formData file true "Обратная сторона DNI"
// @Param auto_renewal formData bool false "Автопродление"
// @Success 200 {object} response.OKResponse "Текущий федеративный статус"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 409 {object} response.ErrorResponse "Федерирование уже идёт"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /federate [post]
// @Security BearerAuth
func (h *EnrollHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.federate.enroll"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, _ := r.Context().Value(middlewarectx.Email).(string)
	front, back, err := readImages(r)
	if err != nil {
		log.Error("failed to read dni images", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("front_image and back_image files are required"))
		return
	}
	autoRenewal, _ := strconv.ParseBool(r.FormValue("auto_renewal"))

	fs, err := h.service.Federate(r.Context(), email, front, back, autoRenewal)
	if err != nil {
		log.Error("failed to federate member", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to federate member"))
		return
	}

	log.Info("federate request processed", slog.String("state", fs.State))
	render.JSON(w, r, response.OKWithData(toView(fs)))
}

// ConfirmCancelHandler подтверждает или отменяет федерирование.
type ConfirmCancelHandler struct {
	log     *slog.Logger
	service Service
}

// NewConfirmCancel создает новый ConfirmCancelHandler.
func NewConfirmCancel(log *slog.Logger, service Service) *ConfirmCancelHandler {
	return &ConfirmCancelHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подтвердить или отменить федерирование
// @Description Из IN_PROGRESS подтверждает федерирование, из FEDERATE отменяет его и удаляет платёж взноса
// @Tags Federate
// @Produce  json
// @Success 200 {object} response.OKResponse "Новый федеративный статус"
// @Failure 409 {object} response.ErrorResponse "Статус NO_FEDERATE менять нельзя"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /federate/confirm-cancel [post]
// @Security BearerAuth
func (h *ConfirmCancelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.federate.confirmcancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dni, _ := r.Context().Value(middlewarectx.Dni).(string)
	fs, err := h.service.ConfirmCancel(r.Context(), dni)
	if err != nil {
		log.Error("failed to confirm or cancel federate state", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to change federate state"))
		return
	}

	log.Info("federate state changed", slog.String("state", fs.State))
	render.JSON(w, r, response.OKWithData(toView(fs)))
}

// AutoRenewHandler переключает флаг автопродления.
type AutoRenewHandler struct {
	log     *slog.Logger
	service Service
}

// NewAutoRenew создает новый AutoRenewHandler.
func NewAutoRenew(log *slog.Logger, service Service) *AutoRenewHandler {
	return &AutoRenewHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Переключить автопродление
// @Description Доступно только в состоянии FEDERATE
// @Tags Federate
// @Produce  json
// @Success 200 {object} response.OKResponse "Обновлённый федеративный статус"
// @Failure 409 {object} response.ErrorResponse "Недопустимое состояние"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /federate/autorenew [post]
// @Security BearerAuth
func (h *AutoRenewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.federate.autorenew"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, _ := r.Context().Value(middlewarectx.Email).(string)
	fs, err := h.service.ChangeAutoRenew(r.Context(), email)
	if err != nil {
		log.Error("failed to toggle auto renewal", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to toggle auto renewal"))
		return
	}

	log.Info("auto renewal toggled", slog.Bool("auto_renewal", fs.AutoRenewal))
	render.JSON(w, r, response.OKWithData(toView(fs)))
}

// UpdateDniHandler заменяет изображения документов DNI.
type UpdateDniHandler struct {
	log     *slog.Logger
	service Service
}

// NewUpdateDni создает новый UpdateDniHandler.
func NewUpdateDni(log *slog.Logger, service Service) *UpdateDniHandler {
	return &UpdateDniHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить документы DNI
// @Description Заменяет изображения DNI; доступно только в состоянии FEDERATE
// @Tags Federate
// @Accept  mpfd
// @Produce  json
// @Param front_image formData file true "Лицевая сторона DNI"
// @Param back_image formData file true "Обратная сторона DNI"
// @Success 200 {object} response.OKResponse "Обновлённый федеративный статус"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 409 {object} response.ErrorResponse "Недопустимое состояние"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /federate/dni [put]
// @Security BearerAuth
func (h *UpdateDniHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.federate.updatedni"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, _ := r.Context().Value(middlewarectx.Email).(string)
	front, back, err := readImages(r)
	if err != nil {
		log.Error("failed to read dni images", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("front_image and back_image files are required"))
		return
	}

	fs, err := h.service.UpdateDni(r.Context(), email, front, back)
	if err != nil {
		log.Error("failed to update dni images", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to update dni images"))
		return
	}

	log.Info("dni images updated", slog.String("user_dni", fs.UserDni))
	render.JSON(w, r, response.OKWithData(toView(fs)))
}

// ImageHandler отдаёт изображение стороны документа DNI для проверки правлением.
type ImageHandler struct {
	log     *slog.Logger
	service Service
}

// NewImage создает новый ImageHandler.
func NewImage(log *slog.Logger, service Service) *ImageHandler {
	return &ImageHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изображение документа DNI члена клуба
// @Description Отдаёт лицевую или обратную сторону загруженного DNI; доступно только правлению
// @Tags Federate
// @Produce  jpeg
// @Param dni path string true "DNI члена клуба"
// @Param side path string true "Сторона документа (front или back)"
// @Success 200 {file} binary "Изображение документа"
// @Failure 404 {object} response.ErrorResponse "Изображение не найдено"
// @Failure 422 {object} response.ErrorResponse "Неизвестная сторона документа"
// @Router /members/{dni}/federate/images/{side} [get]
// @Security BearerAuth
func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.federate.image"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dni := chi.URLParam(r, "dni")
	side := chi.URLParam(r, "side")
	data, err := h.service.DniImage(r.Context(), dni, side)
	if err != nil {
		log.Error("failed to load dni image", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to load dni image"))
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	if _, err = w.Write(data); err != nil {
		log.Error("failed to write dni image", sl.Err(err))
	}
}

// StateHandler возвращает текущий федеративный статус пользователя.
type StateHandler struct {
	log     *slog.Logger
	service Service
}

// NewState создает новый StateHandler.
func NewState(log *slog.Logger, service Service) *StateHandler {
	return &StateHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий федеративный статус
// @Tags Federate
// @Produce  json
// @Success 200 {object} response.OKResponse "Федеративный статус"
// @Failure 404 {object} response.ErrorResponse "Статус не найден"
// @Router /federate [get]
// @Security BearerAuth
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.federate.state"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dni, _ := r.Context().Value(middlewarectx.Dni).(string)
	fs, err := h.service.State(r.Context(), dni)
	if err != nil {
		log.Error("failed to get federate state", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to get federate state"))
		return
	}

	render.JSON(w, r, response.OKWithData(toView(fs)))
}
