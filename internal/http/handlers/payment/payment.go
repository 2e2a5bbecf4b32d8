// Package payment реализует HTTP-обработчики книги платежей клуба.
package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chessclub-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chessclub-membership/internal/http/response"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/sl"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

const dateLayout = "02-01-2006"

// Service описывает интерфейс бизнес-логики книги платежей.
type Service interface {
	Create(ctx context.Context, amount float64, category, description, title, userDni string) (*models.Payment, error)
	Pay(ctx context.Context, id string, paidAt time.Time) (*models.Payment, error)
	Cancel(ctx context.Context, id string) (*models.Payment, error)
	Get(ctx context.Context, id string) (*models.Payment, error)
	ListByUser(ctx context.Context, userDni string) ([]*models.Payment, error)
}

// CreateHandler создает новую запись платежа.
type CreateHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewCreate создает новый CreateHandler.
func NewCreate(log *slog.Logger, service Service) *CreateHandler {
	return &CreateHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Создать запись платежа
// @Description Создает платёж в состоянии UNPAID; сумма должна быть больше 0 и не больше 100
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyPayment true "Данные платежа"
// @Success 200 {object} response.OKResponse "Созданный платёж"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации суммы"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments [post]
// @Security BearerAuth
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	p, err := h.service.Create(r.Context(), req.Amount, req.Category, req.Description, req.Title, req.UserDni)
	if err != nil {
		log.Error("failed to create payment", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to create payment"))
		return
	}

	log.Info("payment created", slog.String("id", p.ID))
	render.JSON(w, r, response.OKWithData(p))
}

// PayHandler переводит платёж в состояние PAID.
type PayHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewPay создает новый PayHandler.
func NewPay(log *slog.Logger, service Service) *PayHandler {
	return &PayHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Оплатить платёж
// @Description Переводит платёж из UNPAID в PAID с указанной датой оплаты
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param id path string true "ID платежа"
// @Param request body models.DummyMakePayment true "Дата оплаты в формате 02-01-2006"
// @Success 200 {object} response.OKResponse "Оплаченный платёж"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Failure 409 {object} response.ErrorResponse "Платёж не в состоянии UNPAID"
// @Failure 422 {object} response.ErrorResponse "Некорректная дата"
// @Router /payments/{id}/pay [post]
// @Security BearerAuth
func (h *PayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.pay"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyMakePayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	paidAt, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		log.Error("invalid payment date", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("payment_date must be in format 02-01-2006"))
		return
	}

	p, err := h.service.Pay(r.Context(), id, paidAt)
	if err != nil {
		log.Error("failed to pay payment", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to pay payment"))
		return
	}

	log.Info("payment paid", slog.String("id", p.ID))
	render.JSON(w, r, response.OKWithData(p))
}

// CancelHandler переводит платёж в состояние CANCELLED.
type CancelHandler struct {
	log     *slog.Logger
	service Service
}

// NewCancel создает новый CancelHandler.
func NewCancel(log *slog.Logger, service Service) *CancelHandler {
	return &CancelHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отменить платёж
// @Description Переводит платёж в CANCELLED; повторная отмена запрещена
// @Tags Payments
// @Produce  json
// @Param id path string true "ID платежа"
// @Success 200 {object} response.OKResponse "Отменённый платёж"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Failure 409 {object} response.ErrorResponse "Платёж уже отменён"
// @Router /payments/{id}/cancel [post]
// @Security BearerAuth
func (h *CancelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	p, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		log.Error("failed to cancel payment", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to cancel payment"))
		return
	}

	log.Info("payment cancelled", slog.String("id", p.ID))
	render.JSON(w, r, response.OKWithData(p))
}

// GetHandler возвращает платёж по ID.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet создает новый GetHandler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить платёж по ID
// @Tags Payments
// @Produce  json
// @Param id path string true "ID платежа"
// @Success 200 {object} response.OKResponse "Платёж"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Router /payments/{id} [get]
// @Security BearerAuth
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to get payment", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to get payment"))
		return
	}

	render.JSON(w, r, response.OKWithData(p))
}

// ListHandler возвращает платежи пользователя.
//
// Без параметра {dni} в URL возвращает платежи авторизованного пользователя,
// с параметром — платежи указанного члена клуба (для казначея).
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список платежей пользователя
// @Description Возвращает все платежи; пустой список, если платежей нет
// @Tags Payments
// @Produce  json
// @Success 200 {object} response.OKResponse "Список платежей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/list [get]
// @Security BearerAuth
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dni := chi.URLParam(r, "dni")
	if dni == "" {
		dni, _ = r.Context().Value(middlewarectx.Dni).(string)
	}

	payments, err := h.service.ListByUser(r.Context(), dni)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to list payments"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"payments": payments,
		"count":    len(payments),
	}))
}
