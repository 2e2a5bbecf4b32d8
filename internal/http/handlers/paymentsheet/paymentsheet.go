// Package paymentsheet реализует HTTP-обработчики авансовых отчётов о поездках.
package paymentsheet

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chessclub-membership/internal/http/response"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/sl"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// Service описывает интерфейс бизнес-логики авансовых отчётов.
type Service interface {
	Add(ctx context.Context, req models.DummyPaymentSheet) (*models.PaymentSheet, error)
	Get(ctx context.Context, id int) (*models.PaymentSheet, error)
	List(ctx context.Context) ([]*models.PaymentSheet, error)
	Remove(ctx context.Context, id int) error
}

// CreateHandler сохраняет новый авансовый отчёт.
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
// @Summary Добавить авансовый отчёт
// @Tags PaymentSheets
// @Accept  json
// @Produce  json
// @Param request body models.DummyPaymentSheet true "Данные отчёта"
// @Success 200 {object} response.OKResponse "Сохранённый отчёт"
// @Failure 404 {object} response.ErrorResponse "Член клуба не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /paymentsheets [post]
// @Security BearerAuth
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentsheet.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPaymentSheet
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

	ps, err := h.service.Add(r.Context(), req)
	if err != nil {
		log.Error("failed to add payment sheet", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to add payment sheet"))
		return
	}

	log.Info("payment sheet added", slog.Int("id", ps.ID))
	render.JSON(w, r, response.OKWithData(ps))
}

// GetHandler возвращает авансовый отчёт по ID.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet создает новый GetHandler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить авансовый отчёт
// @Tags PaymentSheets
// @Produce  json
// @Param id path int true "ID отчёта"
// @Success 200 {object} response.OKResponse "Отчёт"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Отчёт не найден"
// @Router /paymentsheets/{id} [get]
// @Security BearerAuth
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentsheet.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	ps, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to get payment sheet", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to get payment sheet"))
		return
	}

	render.JSON(w, r, response.OKWithData(ps))
}

// ListHandler возвращает все авансовые отчёты.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список авансовых отчётов
// @Tags PaymentSheets
// @Produce  json
// @Success 200 {object} response.OKResponse "Список отчётов"
// @Router /paymentsheets [get]
// @Security BearerAuth
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentsheet.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sheets, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list payment sheets", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to list payment sheets"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment_sheets": sheets,
		"count":          len(sheets),
	}))
}

// RemoveHandler удаляет авансовый отчёт по ID.
type RemoveHandler struct {
	log     *slog.Logger
	service Service
}

// NewRemove создает новый RemoveHandler.
func NewRemove(log *slog.Logger, service Service) *RemoveHandler {
	return &RemoveHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить авансовый отчёт
// @Tags PaymentSheets
// @Produce  json
// @Param id path int true "ID отчёта"
// @Success 200 {object} response.OKResponse "Отчёт удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Отчёт не найден"
// @Router /paymentsheets/{id} [delete]
// @Security BearerAuth
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentsheet.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		log.Error("failed to remove payment sheet", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to remove payment sheet"))
		return
	}

	log.Info("payment sheet removed", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "payment sheet removed",
	}))
}
