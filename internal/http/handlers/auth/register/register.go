// Package register реализует HTTP-обработчик для регистрации новых кандидатов в члены клуба.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chessclub-membership/internal/http/response"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/sl"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// Handler обрабатывает HTTP-запросы регистрации кандидатов.
type Handler struct {
	log         *slog.Logger
	authService AuthService
	validate    *validator.Validate
}

// AuthService определяет методы бизнес-логики регистрации.
type AuthService interface {
	Register(ctx context.Context, req models.DummyRegister) (*models.User, error)
}

// New создает новый экземпляр Handler с заданным логгером и сервисом аутентификации.
func New(log *slog.Logger, authService AuthService) *Handler {
	return &Handler{
		log:         log,
		authService: authService,
		validate:    validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация нового кандидата
// @Description Создает пользователя с ролью CANDIDATO_SOCIO и начальным федеративным статусом NO_FEDERATE
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyRegister true "Данные нового кандидата"
// @Success 200 {object} response.OKResponse "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "DNI или почта уже заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при регистрации"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegister
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

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to register user"))
		return
	}

	log.Info("register success", slog.String("dni", user.Dni), slog.String("email", user.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user created successfully",
		"dni":     user.Dni,
		"email":   user.Email,
	}))
}
