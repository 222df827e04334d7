package app

import (
	"database/sql"

	"go-leave/internal/approval"
	"go-leave/internal/config"
	"go-leave/internal/creditconversion"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	"go-leave/internal/ledger"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/reschedule"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb redis.Cmdable,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	approvalRepo := approval.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	conversionRepo := creditconversion.NewRepository(gormDB)
	rescheduleRepo := reschedule.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(rbac.DefaultPolicies(), rbac.DefaultGroupings())
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Shared collaborators ---
	guard := approval.NewGuard(approvalRepo, logger)
	ledgers := ledger.NewDispatcher(
		ledger.NewEarnableLedger(ledgerRepo, logger),
		ledger.NewAllotmentLedger(ledgerRepo, logger),
	)
	directory := employee.NewDirectory(employeeRepo, rdb, logger)

	topic := cfg.Kafka.NotificationTopic
	if topic == "" {
		topic = events.LeaveNotificationTopic
	}
	notifier := notification.NewOutboxNotifier(
		notification.NewRouter(cfg.Server.BaseURL),
		outboxRepo,
		topic,
		logger,
	)

	// --- Services ---
	leaveService := leave.NewService(db, leaveRepo, approvalRepo, guard, ledgers, directory, notifier, logger)
	conversionService := creditconversion.NewService(db, conversionRepo, ledgers, directory, notifier, logger)
	rescheduleService := reschedule.NewService(db, rescheduleRepo, leaveRepo, approvalRepo, guard, ledgers, directory, notifier, logger)
	ledgerService := ledger.NewQueryService(ledgerRepo, logger)

	// --- Handlers ---
	leaveHandler := leave.NewHandler(leaveService, logger)
	conversionHandler := creditconversion.NewHandler(conversionService, logger)
	rescheduleHandler := reschedule.NewHandler(rescheduleService, logger)
	ledgerHandler := ledger.NewHandler(ledgerService, logger)

	// approve/reject replays are short-circuited by the Idempotency-Key cache
	var decisionMiddleware []gin.HandlerFunc
	if rdb != nil {
		decisionMiddleware = append(decisionMiddleware, middleware.Idempotency(rdb, logger))
	}

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.AuthMiddleware(cfg.Auth.JWTSecret),
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	)
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, decisionMiddleware...)
		creditconversion.RegisterRoutes(api, conversionHandler, rbacService, decisionMiddleware...)
		reschedule.RegisterRoutes(api, rescheduleHandler, rbacService, decisionMiddleware...)
		ledger.RegisterRoutes(api, ledgerHandler, rbacService)
	}

	return nil
}
