// Package library реализует HTTP-обработчики библиотечного каталога клуба.
package library

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

// Service описывает интерфейс бизнес-логики библиотечного каталога.
type Service interface {
	AddBook(ctx context.Context, req models.DummyBook) (*models.Book, error)
	GetBook(ctx context.Context, isbn string) (*models.Book, error)
	ListBooks(ctx context.Context) ([]*models.Book, error)
	RemoveBook(ctx context.Context, isbn string) error

	AddMagazine(ctx context.Context, req models.DummyMagazine) (*models.Magazine, error)
	GetMagazine(ctx context.Context, issn string) (*models.Magazine, error)
	ListMagazines(ctx context.Context) ([]*models.Magazine, error)
	RemoveMagazine(ctx context.Context, issn string) error
}

// CreateBookHandler добавляет книгу в каталог.
type CreateBookHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewCreateBook создает новый CreateBookHandler.
func NewCreateBook(log *slog.Logger, service Service) *CreateBookHandler {
	return &CreateBookHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Добавить книгу
// @Tags Library
// @Accept  json
// @Produce  json
// @Param request body models.DummyBook true "Данные книги"
// @Success 200 {object} response.OKResponse "Добавленная книга"
// @Failure 409 {object} response.ErrorResponse "Книга с таким ISBN уже есть"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /books [post]
// @Security BearerAuth
func (h *CreateBookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.library.createbook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyBook
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

	b, err := h.service.AddBook(r.Context(), req)
	if err != nil {
		log.Error("failed to add book", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to add book"))
		return
	}

	log.Info("book added", slog.String("isbn", b.Isbn))
	render.JSON(w, r, response.OKWithData(b))
}

// GetBookHandler возвращает книгу по ISBN.
type GetBookHandler struct {
	log     *slog.Logger
	service Service
}

// NewGetBook создает новый GetBookHandler.
func NewGetBook(log *slog.Logger, service Service) *GetBookHandler {
	return &GetBookHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить книгу по ISBN
// @Tags Library
// @Produce  json
// @Param isbn path string true "ISBN книги"
// @Success 200 {object} response.OKResponse "Книга"
// @Failure 404 {object} response.ErrorResponse "Книга не найдена"
// @Router /books/{isbn} [get]
// @Security BearerAuth
func (h *GetBookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.library.getbook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	b, err := h.service.GetBook(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		log.Error("failed to get book", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to get book"))
		return
	}

	render.JSON(w, r, response.OKWithData(b))
}

// ListBooksHandler возвращает каталог книг.
type ListBooksHandler struct {
	log     *slog.Logger
	service Service
}

// NewListBooks создает новый ListBooksHandler.
func NewListBooks(log *slog.Logger, service Service) *ListBooksHandler {
	return &ListBooksHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог книг
// @Tags Library
// @Produce  json
// @Success 200 {object} response.OKResponse "Список книг"
// @Router /books [get]
// @Security BearerAuth
func (h *ListBooksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.library.listbooks"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		log.Error("failed to list books", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to list books"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"books": books,
		"count": len(books),
	}))
}

// RemoveBookHandler удаляет книгу по ISBN.
type RemoveBookHandler struct {
	log     *slog.Logger
	service Service
}

// NewRemoveBook создает новый RemoveBookHandler.
func NewRemoveBook(log *slog.Logger, service Service) *RemoveBookHandler {
	return &RemoveBookHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить книгу
// @Tags Library
// @Produce  json
// @Param isbn path string true "ISBN книги"
// @Success 200 {object} response.OKResponse "Книга удалена"
// @Failure 404 {object} response.ErrorResponse "Книга не найдена"
// @Router /books/{isbn} [delete]
// @Security BearerAuth
func (h *RemoveBookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.library.removebook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	isbn := chi.URLParam(r, "isbn")
	if err := h.service.RemoveBook(r.Context(), isbn); err != nil {
		log.Error("failed to remove book", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to remove book"))
		return
	}

	log.Info("book removed", slog.String("isbn", isbn))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "book removed",
	}))
}

// CreateMagazineHandler добавляет журнал в каталог.
type CreateMagazineHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewCreateMagazine создает новый CreateMagazineHandler.
func NewCreateMagazine(log *slog.Logger, service Service) *CreateMagazineHandler {
	return &CreateMagazineHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Добавить журнал
// @Tags Library
// @Accept  json
// @Produce  json
// @Param request body models.DummyMagazine true "Данные журнала"
// @Success 200 {object} response.OKResponse "Добавленный журнал"
// @Failure 409 {object} response.ErrorResponse "Журнал с таким ISSN уже есть"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /magazines [post]
// @Security BearerAuth
func (h *CreateMagazineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.library.createmagazine"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMagazine
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

	m, err := h.service.AddMagazine(r.Context(), req)
	if err != nil {
		log.Error("failed to add magazine", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to add magazine"))
		return
	}

	log.Info("magazine added", slog.String("issn", m.Issn))
	render.JSON(w, r, response.OKWithData(m))
}

// GetMagazineHandler возвращает журнал по ISSN.
type GetMagazineHandler struct {
	log     *slog.Logger
	service Service
}

// NewGetMagazine создает новый GetMagazineHandler.
func NewGetMagazine(log *slog.Logger, service Service) *GetMagazineHandler {
	return &GetMagazineHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить журнал по ISSN
// @Tags Library
// @Produce  json
// @Param issn path string true "ISSN журнала"
// @Success 200 {object} response.OKResponse "Журнал"
// @Failure 404 {object} response.ErrorResponse "Журнал не найден"
// @Router /magazines/{issn} [get]
// @Security BearerAuth
func (h *GetMagazineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.library.getmagazine"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	m, err := h.service.GetMagazine(r.Context(), chi.URLParam(r, "issn"))
	if err != nil {
		log.Error("failed to get magazine", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to get magazine"))
		return
	}

	render.JSON(w, r, response.OKWithData(m))
}

// ListMagazinesHandler возвращает каталог журналов.
type ListMagazinesHandler struct {
	log     *slog.Logger
	service Service
}

// NewListMagazines создает новый ListMagazinesHandler.
func NewListMagazines(log *slog.Logger, service Service) *ListMagazinesHandler {
	return &ListMagazinesHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог журналов
// @Tags Library
// @Produce  json
// @Success 200 {object} response.OKResponse "Список журналов"
// @Router /magazines [get]
// @Security BearerAuth
func (h *ListMagazinesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.library.listmagazines"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	magazines, err := h.service.ListMagazines(r.Context())
	if err != nil {
		log.Error("failed to list magazines", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to list magazines"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"magazines": magazines,
		"count":     len(magazines),
	}))
}

// RemoveMagazineHandler удаляет журнал по ISSN.
type RemoveMagazineHandler struct {
	log     *slog.Logger
	service Service
}

// NewRemoveMagazine создает новый RemoveMagazineHandler.
func NewRemoveMagazine(log *slog.Logger, service Service) *RemoveMagazineHandler {
	return &RemoveMagazineHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить журнал
// @Tags Library
// @Produce  json
// @Param issn path string true "ISSN журнала"
// @Success 200 {object} response.OKResponse "Журнал удалён"
// @Failure 404 {object} response.ErrorResponse "Журнал не найден"
// @Router /magazines/{issn} [delete]
// @Security BearerAuth
func (h *RemoveMagazineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.library.removemagazine"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	issn := chi.URLParam(r, "issn")
	if err := h.service.RemoveMagazine(r.Context(), issn); err != nil {
		log.Error("failed to remove magazine", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to remove magazine"))
		return
	}

	log.Info("magazine removed", slog.String("issn", issn))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "magazine removed",
	}))
}
