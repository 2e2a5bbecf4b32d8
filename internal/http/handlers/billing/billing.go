// Package billing реализует HTTP-обработчики счетов клуба и компаний-контрагентов.
package billing

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

// Service описывает интерфейс бизнес-логики счетов и компаний.
type Service interface {
	AddCompany(ctx context.Context, req models.DummyCompany) (*models.Company, error)
	GetCompany(ctx context.Context, nif string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	RemoveCompany(ctx context.Context, nif string) error

	AddInvoice(ctx context.Context, req models.DummyInvoice) (*models.Invoice, error)
	GetInvoice(ctx context.Context, number int, series string) (*models.Invoice, error)
	ListInvoices(ctx context.Context) ([]*models.Invoice, error)
	RemoveInvoice(ctx context.Context, number int, series string) error
}

// invoiceKey извлекает номер и серию счёта из URL-параметров.
func invoiceKey(r *http.Request) (int, string, error) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		return 0, "", err
	}
	return number, chi.URLParam(r, "series"), nil
}

// CreateCompanyHandler регистрирует компанию-контрагента.
type CreateCompanyHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewCreateCompany создает новый CreateCompanyHandler.
func NewCreateCompany(log *slog.Logger, service Service) *CreateCompanyHandler {
	return &CreateCompanyHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Добавить компанию
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body models.DummyCompany true "Данные компании"
// @Success 200 {object} response.OKResponse "Добавленная компания"
// @Failure 409 {object} response.ErrorResponse "Компания с таким NIF уже есть"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /companies [post]
// @Security BearerAuth
func (h *CreateCompanyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.createcompany"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCompany
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

	c, err := h.service.AddCompany(r.Context(), req)
	if err != nil {
		log.Error("failed to add company", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to add company"))
		return
	}

	log.Info("company added", slog.String("nif", c.Nif))
	render.JSON(w, r, response.OKWithData(c))
}

// GetCompanyHandler возвращает компанию по NIF.
type GetCompanyHandler struct {
	log     *slog.Logger
	service Service
}

// NewGetCompany создает новый GetCompanyHandler.
func NewGetCompany(log *slog.Logger, service Service) *GetCompanyHandler {
	return &GetCompanyHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить компанию по NIF
// @Tags Billing
// @Produce  json
// @Param nif path string true "NIF компании"
// @Success 200 {object} response.OKResponse "Компания"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Router /companies/{nif} [get]
// @Security BearerAuth
func (h *GetCompanyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.getcompany"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	c, err := h.service.GetCompany(r.Context(), chi.URLParam(r, "nif"))
	if err != nil {
		log.Error("failed to get company", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to get company"))
		return
	}

	render.JSON(w, r, response.OKWithData(c))
}

// ListCompaniesHandler возвращает все компании.
type ListCompaniesHandler struct {
	log     *slog.Logger
	service Service
}

// NewListCompanies создает новый ListCompaniesHandler.
func NewListCompanies(log *slog.Logger, service Service) *ListCompaniesHandler {
	return &ListCompaniesHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список компаний
// @Tags Billing
// @Produce  json
// @Success 200 {object} response.OKResponse "Список компаний"
// @Router /companies [get]
// @Security BearerAuth
func (h *ListCompaniesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.listcompanies"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		log.Error("failed to list companies", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to list companies"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"companies": companies,
		"count":     len(companies),
	}))
}

// RemoveCompanyHandler удаляет компанию по NIF.
type RemoveCompanyHandler struct {
	log     *slog.Logger
	service Service
}

// NewRemoveCompany создает новый RemoveCompanyHandler.
func NewRemoveCompany(log *slog.Logger, service Service) *RemoveCompanyHandler {
	return &RemoveCompanyHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить компанию
// @Description Компания с выставленными счетами не удаляется
// @Tags Billing
// @Produce  json
// @Param nif path string true "NIF компании"
// @Success 200 {object} response.OKResponse "Компания удалена"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Failure 409 {object} response.ErrorResponse "У компании есть счета"
// @Router /companies/{nif} [delete]
// @Security BearerAuth
func (h *RemoveCompanyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.removecompany"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	nif := chi.URLParam(r, "nif")
	if err := h.service.RemoveCompany(r.Context(), nif); err != nil {
		log.Error("failed to remove company", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to remove company"))
		return
	}

	log.Info("company removed", slog.String("nif", nif))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "company removed",
	}))
}

// CreateInvoiceHandler регистрирует счёт.
type CreateInvoiceHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewCreateInvoice создает новый CreateInvoiceHandler.
func NewCreateInvoice(log *slog.Logger, service Service) *CreateInvoiceHandler {
	return &CreateInvoiceHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Добавить счёт
// @Description Пара (номер, серия) должна быть уникальна, обе компании должны существовать
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body models.DummyInvoice true "Данные счёта"
// @Success 200 {object} response.OKResponse "Добавленный счёт"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Failure 409 {object} response.ErrorResponse "Счёт уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /invoices [post]
// @Security BearerAuth
func (h *CreateInvoiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.createinvoice"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyInvoice
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

	inv, err := h.service.AddInvoice(r.Context(), req)
	if err != nil {
		log.Error("failed to add invoice", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to add invoice"))
		return
	}

	log.Info("invoice added", slog.Int("number", inv.Number), slog.String("series", inv.Series))
	render.JSON(w, r, response.OKWithData(inv))
}

// GetInvoiceHandler возвращает счёт по номеру и серии.
type GetInvoiceHandler struct {
	log     *slog.Logger
	service Service
}

// NewGetInvoice создает новый GetInvoiceHandler.
func NewGetInvoice(log *slog.Logger, service Service) *GetInvoiceHandler {
	return &GetInvoiceHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить счёт
// @Tags Billing
// @Produce  json
// @Param series path string true "Серия счёта"
// @Param number path int true "Номер счёта"
// @Success 200 {object} response.OKResponse "Счёт"
// @Failure 400 {object} response.ErrorResponse "Некорректный номер"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Router /invoices/{series}/{number} [get]
// @Security BearerAuth
func (h *GetInvoiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.getinvoice"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	number, series, err := invoiceKey(r)
	if err != nil {
		log.Error("invalid invoice number", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid invoice number"))
		return
	}

	inv, err := h.service.GetInvoice(r.Context(), number, series)
	if err != nil {
		log.Error("failed to get invoice", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to get invoice"))
		return
	}

	render.JSON(w, r, response.OKWithData(inv))
}

// ListInvoicesHandler возвращает все счета.
type ListInvoicesHandler struct {
	log     *slog.Logger
	service Service
}

// NewListInvoices создает новый ListInvoicesHandler.
func NewListInvoices(log *slog.Logger, service Service) *ListInvoicesHandler {
	return &ListInvoicesHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список счетов
// @Tags Billing
// @Produce  json
// @Success 200 {object} response.OKResponse "Список счетов"
// @Router /invoices [get]
// @Security BearerAuth
func (h *ListInvoicesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.listinvoices"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	invoices, err := h.service.ListInvoices(r.Context())
	if err != nil {
		log.Error("failed to list invoices", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to list invoices"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"invoices": invoices,
		"count":    len(invoices),
	}))
}

// RemoveInvoiceHandler удаляет счёт по номеру и серии.
type RemoveInvoiceHandler struct {
	log     *slog.Logger
	service Service
}

// NewRemoveInvoice создает новый RemoveInvoiceHandler.
func NewRemoveInvoice(log *slog.Logger, service Service) *RemoveInvoiceHandler {
	return &RemoveInvoiceHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить счёт
// @Tags Billing
// @Produce  json
// @Param series path string true "Серия счёта"
// @Param number path int true "Номер счёта"
// @Success 200 {object} response.OKResponse "Счёт удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный номер"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Router /invoices/{series}/{number} [delete]
// @Security BearerAuth
func (h *RemoveInvoiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.removeinvoice"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	number, series, err := invoiceKey(r)
	if err != nil {
		log.Error("invalid invoice number", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid invoice number"))
		return
	}

	if err := h.service.RemoveInvoice(r.Context(), number, series); err != nil {
		log.Error("failed to remove invoice", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.DomainError(err, "failed to remove invoice"))
		return
	}

	log.Info("invoice removed", slog.Int("number", number), slog.String("series", series))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "invoice removed",
	}))
}
