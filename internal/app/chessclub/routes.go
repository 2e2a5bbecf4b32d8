// Package chessclub предоставляет маршруты для основного приложения.
package chessclub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/auth/register"
	billinghandlers "github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/billing"
	federatehandlers "github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/federate"
	"github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/health"
	libraryhandlers "github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/library"
	memberhandlers "github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/member"
	paymenthandlers "github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/payment"
	paymentsheethandlers "github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/paymentsheet"
	teamhandlers "github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/team"
	tournamenthandlers "github.com/magabrotheeeer/chessclub-membership/internal/http/handlers/tournament"
	"github.com/magabrotheeeer/chessclub-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
	authservice "github.com/magabrotheeeer/chessclub-membership/internal/services/auth"
	billingservice "github.com/magabrotheeeer/chessclub-membership/internal/services/billing"
	federateservice "github.com/magabrotheeeer/chessclub-membership/internal/services/federate"
	libraryservice "github.com/magabrotheeeer/chessclub-membership/internal/services/library"
	memberservice "github.com/magabrotheeeer/chessclub-membership/internal/services/member"
	paymentservice "github.com/magabrotheeeer/chessclub-membership/internal/services/payment"
	paymentsheetservice "github.com/magabrotheeeer/chessclub-membership/internal/services/paymentsheet"
	teamservice "github.com/magabrotheeeer/chessclub-membership/internal/services/team"
	tournamentservice "github.com/magabrotheeeer/chessclub-membership/internal/services/tournament"
	"github.com/magabrotheeeer/chessclub-membership/internal/storage/repository"
)

// Services — набор сервисов, обслуживаемых HTTP-маршрутами.
type Services struct {
	Auth         *authservice.Service
	Federate     *federateservice.Service
	Payment      *paymentservice.Service
	Member       *memberservice.Service
	Library      *libraryservice.Service
	Billing      *billingservice.Service
	PaymentSheet *paymentsheetservice.Service
	Tournament   *tournamentservice.Service
	Team         *teamservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Правление клуба: роли с правом управлять справочниками и членством.
	board := []string{models.RoleAdmin, models.RolePresidente, models.RoleSecretario}
	treasury := []string{models.RoleAdmin, models.RolePresidente, models.RoleTesorero}

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			// Федеративный статус авторизованного пользователя
			r.Post("/federate", federatehandlers.NewEnroll(logger, s.Federate).ServeHTTP)
			r.Get("/federate", federatehandlers.NewState(logger, s.Federate).ServeHTTP)
			r.Post("/federate/confirm-cancel", federatehandlers.NewConfirmCancel(logger, s.Federate).ServeHTTP)
			r.Post("/federate/autorenew", federatehandlers.NewAutoRenew(logger, s.Federate).ServeHTTP)
			r.Put("/federate/dni", federatehandlers.NewUpdateDni(logger, s.Federate).ServeHTTP)

			// Собственный профиль
			r.Put("/members/profile", memberhandlers.NewProfile(logger, s.Member).ServeHTTP)
			r.Put("/members/email", memberhandlers.NewEmail(logger, s.Member).ServeHTTP)
			r.Put("/members/password", memberhandlers.NewPassword(logger, s.Member).ServeHTTP)
			r.Post("/members/unsubscribe", memberhandlers.NewUnsubscribe(logger, s.Member).ServeHTTP)
			r.Get("/payments/list", paymenthandlers.NewList(logger, s.Payment).ServeHTTP)

			// Справочник членов клуба — только правление
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, board...))
				r.Get("/members", memberhandlers.NewList(logger, s.Member).ServeHTTP)
				r.Get("/members/{dni}", memberhandlers.NewGet(logger, s.Member).ServeHTTP)
				r.Post("/members/{dni}/accept", memberhandlers.NewAccept(logger, s.Member).ServeHTTP)
				r.Get("/members/{dni}/federate/images/{side}", federatehandlers.NewImage(logger, s.Federate).ServeHTTP)
				r.Put("/members/{dni}/kind", memberhandlers.NewKind(logger, s.Member).ServeHTTP)
				r.Post("/members/{dni}/roles", memberhandlers.NewRole(logger, s.Member).ServeHTTP)
				r.Delete("/members/{dni}/roles", memberhandlers.NewRole(logger, s.Member).ServeHTTP)
				r.Delete("/members/{dni}", memberhandlers.NewDelete(logger, s.Member).ServeHTTP)
			})

			// Книга платежей — только казначейство
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, treasury...))
				r.Post("/payments", paymenthandlers.NewCreate(logger, s.Payment).ServeHTTP)
				r.Get("/payments/{id}", paymenthandlers.NewGet(logger, s.Payment).ServeHTTP)
				r.Post("/payments/{id}/pay", paymenthandlers.NewPay(logger, s.Payment).ServeHTTP)
				r.Post("/payments/{id}/cancel", paymenthandlers.NewCancel(logger, s.Payment).ServeHTTP)
				r.Get("/members/{dni}/payments", paymenthandlers.NewList(logger, s.Payment).ServeHTTP)
			})

			// Библиотечный каталог
			r.Get("/books", libraryhandlers.NewListBooks(logger, s.Library).ServeHTTP)
			r.Get("/books/{isbn}", libraryhandlers.NewGetBook(logger, s.Library).ServeHTTP)
			r.Get("/magazines", libraryhandlers.NewListMagazines(logger, s.Library).ServeHTTP)
			r.Get("/magazines/{issn}", libraryhandlers.NewGetMagazine(logger, s.Library).ServeHTTP)
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, board...))
				r.Post("/books", libraryhandlers.NewCreateBook(logger, s.Library).ServeHTTP)
				r.Delete("/books/{isbn}", libraryhandlers.NewRemoveBook(logger, s.Library).ServeHTTP)
				r.Post("/magazines", libraryhandlers.NewCreateMagazine(logger, s.Library).ServeHTTP)
				r.Delete("/magazines/{issn}", libraryhandlers.NewRemoveMagazine(logger, s.Library).ServeHTTP)
			})

			// Счета и компании — только казначейство
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, treasury...))
				r.Post("/companies", billinghandlers.NewCreateCompany(logger, s.Billing).ServeHTTP)
				r.Get("/companies", billinghandlers.NewListCompanies(logger, s.Billing).ServeHTTP)
				r.Get("/companies/{nif}", billinghandlers.NewGetCompany(logger, s.Billing).ServeHTTP)
				r.Delete("/companies/{nif}", billinghandlers.NewRemoveCompany(logger, s.Billing).ServeHTTP)
				r.Post("/invoices", billinghandlers.NewCreateInvoice(logger, s.Billing).ServeHTTP)
				r.Get("/invoices", billinghandlers.NewListInvoices(logger, s.Billing).ServeHTTP)
				r.Get("/invoices/{series}/{number}", billinghandlers.NewGetInvoice(logger, s.Billing).ServeHTTP)
				r.Delete("/invoices/{series}/{number}", billinghandlers.NewRemoveInvoice(logger, s.Billing).ServeHTTP)

				r.Post("/paymentsheets", paymentsheethandlers.NewCreate(logger, s.PaymentSheet).ServeHTTP)
				r.Get("/paymentsheets", paymentsheethandlers.NewList(logger, s.PaymentSheet).ServeHTTP)
				r.Get("/paymentsheets/{id}", paymentsheethandlers.NewGet(logger, s.PaymentSheet).ServeHTTP)
				r.Delete("/paymentsheets/{id}", paymentsheethandlers.NewRemove(logger, s.PaymentSheet).ServeHTTP)
			})

			// Турниры и команды
			r.Get("/tournament/participants", tournamenthandlers.NewList(logger, s.Tournament).ServeHTTP)
			r.Get("/tournament/participants/{fideID}", tournamenthandlers.NewGet(logger, s.Tournament).ServeHTTP)
			r.Get("/teams", teamhandlers.NewList(logger, s.Team).ServeHTTP)
			r.Get("/teams/{name}", teamhandlers.NewGet(logger, s.Team).ServeHTTP)
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, board...))
				r.Post("/tournament/participants", tournamenthandlers.NewRegister(logger, s.Tournament).ServeHTTP)
				r.Put("/tournament/participants/{fideID}/byes", tournamenthandlers.NewByes(logger, s.Tournament).ServeHTTP)
				r.Delete("/tournament/participants/{fideID}", tournamenthandlers.NewRemove(logger, s.Tournament).ServeHTTP)
				r.Post("/teams", teamhandlers.NewCreate(logger, s.Team).ServeHTTP)
				r.Post("/teams/{name}/members", teamhandlers.NewAssign(logger, s.Team).ServeHTTP)
				r.Delete("/teams/members/{dni}", teamhandlers.NewUnassign(logger, s.Team).ServeHTTP)
				r.Delete("/teams/{name}", teamhandlers.NewDelete(logger, s.Team).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
