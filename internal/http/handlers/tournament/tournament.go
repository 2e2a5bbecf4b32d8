// Package tournament реализует HTTP-обработчики списка участников турнира клуба.
package tournament

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

// Service описывает интерфейс бизнес-логики списка участников турнира.
type Service interface {
	Register(ctx context.Context, req models.DummyTournamentParticipant) (*models.TournamentParticipant, error)
	Get(ctx context.Context, fideID int64) (*models.TournamentParticipant, error)
	List(ctx context.Context) ([]*models.TournamentParticipant, error)
	UpdateByes(ctx context.Context, fideID int64, byes string) error
	Remove(ctx context.Context, fideID int64) error
}

func fideIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "fideID"), 10, 64)
}

// RegisterHandler вносит участника в список турнира.
type RegisterHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewRegister создает новый RegisterHandler.
func NewRegister(log *slog.Logger, service Service) *RegisterHandler {
	return &RegisterHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Зарегистрировать участника турнира
// @Tags Tournament
// @Accept  json
// @Produce  json
// @Param request body models.DummyTournamentParticipant true "Данные участника"
// @Success 200 {object} response.OKResponse "Зарегистрированный участник"
// @Failure 409 {object} response.ErrorResponse "Участник с таким FIDE ID уже есть"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /tournament/participants [post]
// @Security BearerAuth
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tournament.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTournamentParticipant
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

	tp, err := h.service.Register(r.Context(), req)
	if err != nil {
		log.Error("failed to register participant", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to register participant"))
		return
	}

	log.Info("participant registered", slog.Int64("fide_id", tp.FideID))
	render.JSON(w, r, response.OKWithData(tp))
}

// GetHandler возвращает участника по идентификатору FIDE.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet создает новый GetHandler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить участника турнира
// @Tags Tournament
// @Produce  json
// @Param fideID path int true "FIDE ID участника"
// @Success 200 {object} response.OKResponse "Участник"
// @Failure 400 {object} response.ErrorResponse "Некорректный FIDE ID"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Router /tournament/participants/{fideID} [get]
// @Security BearerAuth
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tournament.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	fideID, err := fideIDParam(r)
	if err != nil {
		log.Error("invalid fide id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid fide id"))
		return
	}

	tp, err := h.service.Get(r.Context(), fideID)
	if err != nil {
		log.Error("failed to get participant", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to get participant"))
		return
	}

	render.JSON(w, r, response.OKWithData(tp))
}

// ListHandler возвращает всех участников турнира.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список участников турнира
// @Tags Tournament
// @Produce  json
// @Success 200 {object} response.OKResponse "Список участников"
// @Router /tournament/participants [get]
// @Security BearerAuth
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tournament.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	participants, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list participants", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to list participants"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"participants": participants,
		"count":        len(participants),
	}))
}

// ByesHandler обновляет заявленные пропуски туров участника.
type ByesHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// ByesRequest — входные данные для обновления пропусков.
type ByesRequest struct {
	Byes string `json:"byes"`
}

// NewByes создает новый ByesHandler.
func NewByes(log *slog.Logger, service Service) *ByesHandler {
	return &ByesHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Обновить пропуски туров
// @Tags Tournament
// @Accept  json
// @Produce  json
// @Param fideID path int true "FIDE ID участника"
// @Param request body ByesRequest true "Номера пропускаемых туров через запятую"
// @Success 200 {object} response.OKResponse "Пропуски обновлены"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Router /tournament/participants/{fideID}/byes [put]
// @Security BearerAuth
func (h *ByesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tournament.byes"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	fideID, err := fideIDParam(r)
	if err != nil {
		log.Error("invalid fide id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid fide id"))
		return
	}

	var req ByesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.UpdateByes(r.Context(), fideID, req.Byes); err != nil {
		log.Error("failed to update byes", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to update byes"))
		return
	}

	log.Info("byes updated", slog.Int64("fide_id", fideID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "byes updated",
	}))
}

// RemoveHandler удаляет участника из списка турнира.
type RemoveHandler struct {
	log     *slog.Logger
	service Service
}

// NewRemove создает новый RemoveHandler.
func NewRemove(log *slog.Logger, service Service) *RemoveHandler {
	return &RemoveHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить участника турнира
// @Tags Tournament
// @Produce  json
// @Param fideID path int true "FIDE ID участника"
// @Success 200 {object} response.OKResponse "Участник удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный FIDE ID"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Router /tournament/participants/{fideID} [delete]
// @Security BearerAuth
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tournament.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	fideID, err := fideIDParam(r)
	if err != nil {
		log.Error("invalid fide id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid fide id"))
		return
	}

	if err := h.service.Remove(r.Context(), fideID); err != nil {
		log.Error("failed to remove participant", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to remove participant"))
		return
	}

	log.Info("participant removed", slog.Int64("fide_id", fideID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "participant removed",
	}))
}
