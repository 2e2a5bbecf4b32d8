// Package member реализует HTTP-обработчики справочника членов клуба.
package member

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

	"github.com/magabrotheeeer/chessclub-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chessclub-membership/internal/http/response"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/sl"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// Service описывает интерфейс бизнес-логики справочника членов клуба.
type Service interface {
	AcceptUserAsMember(ctx context.Context, dni string) (*models.User, error)
	Get(ctx context.Context, dni string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateProfile(ctx context.Context, dni string, req models.DummyProfile) error
	ChangeEmail(ctx context.Context, dni, email string) error
	ChangePassword(ctx context.Context, dni, currentPassword, newPassword string) error
	ChangeKind(ctx context.Context, dni, kind string) error
	AddRole(ctx context.Context, dni, role string) error
	RemoveRole(ctx context.Context, dni, role string) error
	Unsubscribe(ctx context.Context, dni string) error
	Delete(ctx context.Context, dni string) error
}

// memberView — JSON-представление члена клуба без хэша пароля.
type memberView struct {
	Dni       string   `json:"dni"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Surnames  string   `json:"surnames"`
	BirthDate string   `json:"birth_date"`
	Gender    string   `json:"gender"`
	Kind      string   `json:"kind"`
	Enabled   bool     `json:"enabled"`
	Roles     []string `json:"roles"`
	TeamName  *string  `json:"team_name,omitempty"`
}

func toView(u *models.User) memberView {
	return memberView{
		Dni:       u.Dni,
		Email:     u.Email,
		Name:      u.Name,
		Surnames:  u.Surnames,
		BirthDate: u.BirthDate.Format("02-01-2006"),
		Gender:    u.Gender,
		Kind:      u.Kind,
		Enabled:   u.Enabled,
		Roles:     u.Roles,
		TeamName:  u.TeamName,
	}
}

// AcceptHandler принимает кандидата в члены клуба.
type AcceptHandler struct {
	log     *slog.Logger
	service Service
}

// NewAccept создает новый AcceptHandler.
func NewAccept(log *slog.Logger, service Service) *AcceptHandler {
	return &AcceptHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Принять кандидата в члены клуба
// @Description Заменяет роль CANDIDATO_SOCIO на SOCIO и создает платёж вступительного взноса по виду членства
// @Tags Members
// @Produce  json
// @Param dni path string true "DNI кандидата"
// @Success 200 {object} response.OKResponse "Принятый член клуба"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Пользователь не является кандидатом"
// @Router /members/{dni}/accept [post]
// @Security BearerAuth
func (h *AcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.accept"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dni := chi.URLParam(r, "dni")
	user, err := h.service.AcceptUserAsMember(r.Context(), dni)
	if err != nil {
		log.Error("failed to accept candidate", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to accept candidate"))
		return
	}

	log.Info("candidate accepted", slog.String("dni", dni))
	render.JSON(w, r, response.OKWithData(toView(user)))
}

// ListHandler возвращает список членов клуба с пагинацией.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список членов клуба
// @Tags Members
// @Produce  json
// @Param limit query int false "Размер страницы" default(50)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} response.OKResponse "Список членов клуба"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members [get]
// @Security BearerAuth
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to list members"))
		return
	}

	views := make([]memberView, 0, len(users))
	for _, u := range users {
		views = append(views, toView(u))
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"members": views,
		"count":   len(views),
	}))
}

// GetHandler возвращает члена клуба по DNI.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet создает новый GetHandler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить члена клуба по DNI
// @Tags Members
// @Produce  json
// @Param dni path string true "DNI члена клуба"
// @Success 200 {object} response.OKResponse "Член клуба"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /members/{dni} [get]
// @Security BearerAuth
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dni := chi.URLParam(r, "dni")
	user, err := h.service.Get(r.Context(), dni)
	if err != nil {
		log.Error("failed to get member", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to get member"))
		return
	}

	render.JSON(w, r, response.OKWithData(toView(user)))
}

// ProfileHandler обновляет профиль авторизованного пользователя.
type ProfileHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewProfile создает новый ProfileHandler.
func NewProfile(log *slog.Logger, service Service) *ProfileHandler {
	return &ProfileHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Обновить профиль
// @Tags Members
// @Accept  json
// @Produce  json
// @Param request body models.DummyProfile true "Новые данные профиля"
// @Success 200 {object} response.OKResponse "Профиль обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /members/profile [put]
// @Security BearerAuth
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyProfile
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

	dni, _ := r.Context().Value(middlewarectx.Dni).(string)
	if err := h.service.UpdateProfile(r.Context(), dni, req); err != nil {
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to update profile"))
		return
	}

	log.Info("profile updated", slog.String("dni", dni))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "profile updated",
	}))
}

// EmailHandler обновляет электронную почту авторизованного пользователя.
type EmailHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// EmailRequest — входные данные для смены почты.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewEmail создает новый EmailHandler.
func NewEmail(log *slog.Logger, service Service) *EmailHandler {
	return &EmailHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Сменить электронную почту
// @Tags Members
// @Accept  json
// @Produce  json
// @Param request body EmailRequest true "Новая почта"
// @Success 200 {object} response.OKResponse "Почта обновлена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /members/email [put]
// @Security BearerAuth
func (h *EmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.email"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req EmailRequest
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

	dni, _ := r.Context().Value(middlewarectx.Dni).(string)
	if err := h.service.ChangeEmail(r.Context(), dni, req.Email); err != nil {
		log.Error("failed to change email", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to change email"))
		return
	}

	log.Info("email changed", slog.String("dni", dni))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "email updated",
	}))
}

// PasswordHandler меняет пароль авторизованного пользователя.
type PasswordHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// PasswordRequest — входные данные для смены пароля.
type PasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// NewPassword создает новый PasswordHandler.
func NewPassword(log *slog.Logger, service Service) *PasswordHandler {
	return &PasswordHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Сменить пароль
// @Description Требует действующий пароль для подтверждения
// @Tags Members
// @Accept  json
// @Produce  json
// @Param request body PasswordRequest true "Текущий и новый пароли"
// @Success 200 {object} response.OKResponse "Пароль обновлён"
// @Failure 422 {object} response.ErrorResponse "Текущий пароль не подошёл"
// @Router /members/password [put]
// @Security BearerAuth
func (h *PasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.password"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req PasswordRequest
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

	dni, _ := r.Context().Value(middlewarectx.Dni).(string)
	if err := h.service.ChangePassword(r.Context(), dni, req.CurrentPassword, req.NewPassword); err != nil {
		log.Error("failed to change password", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to change password"))
		return
	}

	log.Info("password changed", slog.String("dni", dni))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "password updated",
	}))
}

// KindHandler меняет вид членства пользователя.
type KindHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// KindRequest — входные данные для смены вида членства.
type KindRequest struct {
	Kind string `json:"kind" validate:"required,oneof=SOCIO_NUMERO SOCIO_ASPIRANTE SOCIO_HONORARIO SOCIO_FAMILIAR"`
}

// NewKind создает новый KindHandler.
func NewKind(log *slog.Logger, service Service) *KindHandler {
	return &KindHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Сменить вид членства
// @Tags Members
// @Accept  json
// @Produce  json
// @Param dni path string true "DNI члена клуба"
// @Param request body KindRequest true "Новый вид членства"
// @Success 200 {object} response.OKResponse "Вид членства обновлён"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Неизвестный вид членства"
// @Router /members/{dni}/kind [put]
// @Security BearerAuth
func (h *KindHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.kind"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req KindRequest
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

	dni := chi.URLParam(r, "dni")
	if err := h.service.ChangeKind(r.Context(), dni, req.Kind); err != nil {
		log.Error("failed to change member kind", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to change member kind"))
		return
	}

	log.Info("member kind changed", slog.String("dni", dni), slog.String("kind", req.Kind))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "kind updated",
	}))
}

// RoleHandler добавляет или удаляет роль члена клуба в зависимости от метода.
type RoleHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// RoleRequest — входные данные для операций с ролями.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN PRESIDENTE TESORERO SECRETARIO SOCIO CANDIDATO_SOCIO"`
}

// NewRole создает новый RoleHandler.
func NewRole(log *slog.Logger, service Service) *RoleHandler {
	return &RoleHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Добавить или удалить роль
// @Description POST добавляет роль, DELETE удаляет её
// @Tags Members
// @Accept  json
// @Produce  json
// @Param dni path string true "DNI члена клуба"
// @Param request body RoleRequest true "Роль"
// @Success 200 {object} response.OKResponse "Роли обновлены"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /members/{dni}/roles [post]
// @Security BearerAuth
func (h *RoleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.role"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req RoleRequest
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

	dni := chi.URLParam(r, "dni")
	var err error
	if r.Method == http.MethodDelete {
		err = h.service.RemoveRole(r.Context(), dni, req.Role)
	} else {
		err = h.service.AddRole(r.Context(), dni, req.Role)
	}
	if err != nil {
		log.Error("failed to update member roles", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to update member roles"))
		return
	}

	log.Info("member roles updated", slog.String("dni", dni), slog.String("role", req.Role))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "roles updated",
	}))
}

// UnsubscribeHandler отключает учётную запись авторизованного пользователя.
type UnsubscribeHandler struct {
	log     *slog.Logger
	service Service
}

// NewUnsubscribe создает новый UnsubscribeHandler.
func NewUnsubscribe(log *slog.Logger, service Service) *UnsubscribeHandler {
	return &UnsubscribeHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отписаться от клуба
// @Description Мягко отключает учётную запись, данные не удаляются
// @Tags Members
// @Produce  json
// @Success 200 {object} response.OKResponse "Учётная запись отключена"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /members/unsubscribe [post]
// @Security BearerAuth
func (h *UnsubscribeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.unsubscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dni, _ := r.Context().Value(middlewarectx.Dni).(string)
	if err := h.service.Unsubscribe(r.Context(), dni); err != nil {
		log.Error("failed to unsubscribe member", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to unsubscribe member"))
		return
	}

	log.Info("member unsubscribed", slog.String("dni", dni))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "account disabled",
	}))
}

// DeleteHandler безвозвратно удаляет члена клуба; только для администратора.
type DeleteHandler struct {
	log     *slog.Logger
	service Service
}

// NewDelete создает новый DeleteHandler.
func NewDelete(log *slog.Logger, service Service) *DeleteHandler {
	return &DeleteHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить члена клуба
// @Tags Members
// @Produce  json
// @Param dni path string true "DNI члена клуба"
// @Success 200 {object} response.OKResponse "Пользователь удалён"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /members/{dni} [delete]
// @Security BearerAuth
func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.delete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dni := chi.URLParam(r, "dni")
	if err := h.service.Delete(r.Context(), dni); err != nil {
		log.Error("failed to delete member", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to delete member"))
		return
	}

	log.Info("member deleted", slog.String("dni", dni))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "member deleted",
	}))
}
