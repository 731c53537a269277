package api

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/profitbridge/platform-api/internal/api/handler"
	"github.com/profitbridge/platform-api/internal/api/middleware"
	"github.com/profitbridge/platform-api/internal/api/spec"
	"github.com/profitbridge/platform-api/internal/config"
	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/feed"
	"github.com/profitbridge/platform-api/internal/idempotency"
	"github.com/profitbridge/platform-api/internal/service"
)

type Router struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *pgxpool.Pool
	store     service.Store
	idemStore *idempotency.Store
	redis     redis.Cmdable
	hub       *feed.Hub
}

func NewRouter(cfg *config.Config, logger *zap.Logger, db *pgxpool.Pool, store service.Store, idemStore *idempotency.Store, redisClient redis.Cmdable, hub *feed.Hub) *Router {
	return &Router{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		store:     store,
		idemStore: idemStore,
		redis:     redisClient,
		hub:       hub,
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	// Services
	authSvc := service.NewAuthService(api.store)
	snapshotSvc := service.NewSnapshotService(api.store)
	depositSvc := service.NewDepositService(api.store)
	withdrawalSvc := service.NewWithdrawalService(api.store)
	investmentSvc := service.NewInvestmentService(api.store)
	notificationSvc := service.NewNotificationService(api.store)
	supportSvc := service.NewSupportService(api.store)
	adminSvc := service.NewAdminService(api.store)
	adminSvc.CreditOnApproval = api.cfg.DepositApprovalCredits
	adminSvc.RefundOnReject = api.cfg.WithdrawalRejectRefunds

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	snapshotHandler := handler.NewSnapshotHandler(snapshotSvc)
	streamHandler := handler.NewStreamHandler(api.hub, snapshotSvc)
	depositHandler := handler.NewDepositHandler(depositSvc, api.cfg.PageSize)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc, api.cfg.PageSize)
	investmentHandler := handler.NewInvestmentHandler(investmentSvc, api.cfg.PageSize)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, api.cfg.PageSize)
	supportHandler := handler.NewSupportHandler(supportSvc, api.cfg.PageSize)
	adminHandler := handler.NewAdminHandler(adminSvc, api.cfg.PageSize)
	healthHandler := handler.NewHealthHandler(api.db, api.redis)

	idem := middleware.IdempotencyMiddleware(api.idemStore, api.logger)

	// Operational surface
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))
		r.Post("/v1/auth/register", authHandler.Register)
		r.Post("/v1/auth/login", authHandler.Login)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.AuthRateLimiter(api.cfg.AuthRateLimitRPS))

		// Long-lived; exempt from the request timeout applied below.
		r.Get("/v1/snapshot/stream", streamHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(api.cfg.RequestTimeout))

			r.Get("/v1/me", authHandler.Me)
			r.Patch("/v1/me", authHandler.UpdateMe)
			r.Post("/v1/me/password", authHandler.ChangePassword)
			r.Get("/v1/snapshot", snapshotHandler.Get)

			r.Get("/v1/notifications", notificationHandler.List)
			r.Post("/v1/notifications/{id}/read", notificationHandler.MarkRead)
			r.Post("/v1/notifications/read-all", notificationHandler.MarkAllRead)

			r.Post("/v1/support/tickets", supportHandler.Open)
			r.Get("/v1/support/tickets", supportHandler.ListMine)

			r.With(idem).Post("/v1/deposits", depositHandler.Submit)
			r.Get("/v1/deposits", depositHandler.History)

			r.With(idem).Post("/v1/withdrawals", withdrawalHandler.Submit)
			r.Get("/v1/withdrawals", withdrawalHandler.History)

			r.With(idem).Post("/v1/investments", investmentHandler.Submit)
			r.Get("/v1/investments", investmentHandler.History)
			r.Post("/v1/investments/quote", investmentHandler.Quote)
			r.Get("/v1/plans", investmentHandler.Plans)
		})

		// Moderation
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(api.cfg.RequestTimeout))
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Get("/v1/admin/deposits", adminHandler.ListDeposits)
			r.Patch("/v1/admin/deposits/{id}/status", adminHandler.SetDepositStatus)
			r.Delete("/v1/admin/deposits/{id}", adminHandler.DeleteDeposit)

			r.Get("/v1/admin/withdrawals", adminHandler.ListWithdrawals)
			r.Patch("/v1/admin/withdrawals/{id}/status", adminHandler.SetWithdrawalStatus)
			r.Delete("/v1/admin/withdrawals/{id}", adminHandler.DeleteWithdrawal)

			r.Get("/v1/admin/investments", adminHandler.ListInvestments)
			r.Delete("/v1/admin/investments/{id}", adminHandler.DeleteInvestment)

			r.Get("/v1/admin/users", adminHandler.ListUsers)
			r.Patch("/v1/admin/users/{id}/suspension", adminHandler.SetUserSuspended)
			r.Delete("/v1/admin/users/{id}", adminHandler.DeleteUser)

			r.Get("/v1/admin/support/tickets", supportHandler.ListAll)
			r.Patch("/v1/admin/support/tickets/{id}/status", supportHandler.SetStatus)
			r.Delete("/v1/admin/support/tickets/{id}", supportHandler.Delete)

			r.Post("/v1/admin/plans", adminHandler.CreatePlan)
			r.Put("/v1/admin/plans/{id}", adminHandler.UpdatePlan)
			r.Delete("/v1/admin/plans/{id}", adminHandler.DeletePlan)
		})
	})

	return r
}
