// Package team реализует HTTP-обработчики командных составов клуба.
package team

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chessclub-membership/internal/http/response"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/sl"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// Service описывает интерфейс бизнес-логики командных составов.
type Service interface {
	Create(ctx context.Context, req models.DummyTeam) (*models.Team, error)
	Get(ctx context.Context, name string) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	AssignMember(ctx context.Context, teamName, dni string) error
	RemoveMember(ctx context.Context, dni string) error
	Delete(ctx context.Context, name string) error
}

// CreateHandler создает новую команду.
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
// @Summary Создать команду
// @Tags Teams
// @Accept  json
// @Produce  json
// @Param request body models.DummyTeam true "Данные команды"
// @Success 200 {object} response.OKResponse "Созданная команда"
// @Failure 409 {object} response.ErrorResponse "Команда с таким названием уже есть"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /teams [post]
// @Security BearerAuth
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.team.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTeam
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

	t, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create team", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to create team"))
		return
	}

	log.Info("team created", slog.String("name", t.Name))
	render.JSON(w, r, response.OKWithData(t))
}

// GetHandler возвращает команду вместе с составом.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet создает новый GetHandler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить команду
// @Description Возвращает команду вместе со списком DNI её членов
// @Tags Teams
// @Produce  json
// @Param name path string true "Название команды"
// @Success 200 {object} response.OKResponse "Команда"
// @Failure 404 {object} response.ErrorResponse "Команда не найдена"
// @Router /teams/{name} [get]
// @Security BearerAuth
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.team.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	t, err := h.service.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		log.Error("failed to get team", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to get team"))
		return
	}

	render.JSON(w, r, response.OKWithData(t))
}

// ListHandler возвращает все команды.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список команд
// @Tags Teams
// @Produce  json
// @Success 200 {object} response.OKResponse "Список команд"
// @Router /teams [get]
// @Security BearerAuth
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.team.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	teams, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list teams", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to list teams"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"teams": teams,
		"count": len(teams),
	}))
}

// AssignHandler назначает члена клуба в команду.
type AssignHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// AssignRequest — входные данные назначения в команду.
type AssignRequest struct {
	Dni string `json:"dni" validate:"required,alphanum"`
}

// NewAssign создает новый AssignHandler.
func NewAssign(log *slog.Logger, service Service) *AssignHandler {
	return &AssignHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Назначить члена клуба в команду
// @Tags Teams
// @Accept  json
// @Produce  json
// @Param name path string true "Название команды"
// @Param request body AssignRequest true "DNI члена клуба"
// @Success 200 {object} response.OKResponse "Назначение выполнено"
// @Failure 404 {object} response.ErrorResponse "Команда или член клуба не найдены"
// @Router /teams/{name}/members [post]
// @Security BearerAuth
func (h *AssignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.team.assign"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req AssignRequest
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

	name := chi.URLParam(r, "name")
	if err := h.service.AssignMember(r.Context(), name, req.Dni); err != nil {
		log.Error("failed to assign member to team", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to assign member to team"))
		return
	}

	log.Info("member assigned to team", slog.String("team", name), slog.String("dni", req.Dni))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "member assigned",
	}))
}

// UnassignHandler снимает назначение члена клуба в команду.
type UnassignHandler struct {
	log     *slog.Logger
	service Service
}

// NewUnassign создает новый UnassignHandler.
func NewUnassign(log *slog.Logger, service Service) *UnassignHandler {
	return &UnassignHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Снять назначение члена клуба
// @Tags Teams
// @Produce  json
// @Param dni path string true "DNI члена клуба"
// @Success 200 {object} response.OKResponse "Назначение снято"
// @Failure 404 {object} response.ErrorResponse "Член клуба не найден"
// @Router /teams/members/{dni} [delete]
// @Security BearerAuth
func (h *UnassignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.team.unassign"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dni := chi.URLParam(r, "dni")
	if err := h.service.RemoveMember(r.Context(), dni); err != nil {
		log.Error("failed to unassign member", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to unassign member"))
		return
	}

	log.Info("member unassigned", slog.String("dni", dni))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "member unassigned",
	}))
}

// DeleteHandler удаляет команду.
type DeleteHandler struct {
	log     *slog.Logger
	service Service
}

// NewDelete создает новый DeleteHandler.
func NewDelete(log *slog.Logger, service Service) *DeleteHandler {
	return &DeleteHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить команду
// @Description Удаляет команду и снимает назначения её членов
// @Tags Teams
// @Produce  json
// @Param name path string true "Название команды"
// @Success 200 {object} response.OKResponse "Команда удалена"
// @Failure 404 {object} response.ErrorResponse "Команда не найдена"
// @Router /teams/{name} [delete]
// @Security BearerAuth
func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.team.delete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	name := chi.URLParam(r, "name")
	if err := h.service.Delete(r.Context(), name); err != nil {
		log.Error("failed to delete team", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to delete team"))
		return
	}

	log.Info("team deleted", slog.String("name", name))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "team deleted",
	}))
}
