package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "omnisuite/internal/api"
	"omnisuite/internal/config"
	"omnisuite/internal/database"
	"omnisuite/internal/features/access"
	"omnisuite/internal/features/audit"
	"omnisuite/internal/features/auth"
	"omnisuite/internal/features/document"
	"omnisuite/internal/features/notification"
	"omnisuite/internal/features/page"
	"omnisuite/internal/features/reminder"
	sync_feature "omnisuite/internal/features/sync"
	"omnisuite/internal/features/user"
	"omnisuite/internal/features/workflow"
	"omnisuite/internal/logger"
	"omnisuite/internal/middleware"
	"omnisuite/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx adds its result to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	pageRepo page.PageRepository,
	grantRepo page.GrantRepository,
	userRepo user.UserRepository,
	docRepo document.DocumentRepository,
	itemRepo sync_feature.ItemRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				for name, ensure := range map[string]func(context.Context) error{
					"pages":     pageRepo.EnsureIndexes,
					"grants":    grantRepo.EnsureIndexes,
					"users":     userRepo.EnsureIndexes,
					"documents": docRepo.EnsureIndexes,
					"items":     itemRepo.EnsureIndexes,
				} {
					if err := ensure(ctx); err != nil {
						log.Printf("Failed to ensure %s indexes: %v", name, err)
					}
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			page.NewPageRepository,
			page.NewGrantRepository,
			user.NewUserRepository,
			audit.NewAuditRepository,
			workflow.NewWorkflowRepository,
			document.NewDocumentRepository,
			notification.NewNotificationRepository,
			sync_feature.NewSyncSettingRepository,
			sync_feature.NewSyncLogRepository,
			sync_feature.NewItemRepository,

			notification.NewHub,

			audit.NewAuditService,
			page.NewPageService,
			user.NewUserService,
			access.NewAccessService,
			auth.NewAuthService,
			workflow.NewWorkflowService,
			document.NewDocumentService,
			notification.NewNotificationService,
			sync_feature.NewSyncService,
			reminder.NewReminderService,

			// Interface adapters to break circular dependencies
			func(r user.UserRepository) audit.UserFinder { return r },
			func(s notification.NotificationService) document.Notifier { return s },

			page.NewPageController,
			user.NewUserController,
			access.NewAccessController,
			auth.NewAuthController,
			audit.NewAuditController,
			workflow.NewWorkflowController,
			document.NewDocumentController,
			notification.NewNotificationController,
			sync_feature.NewSyncController,

			AsRoute(page.NewPageApi),
			AsRoute(user.NewUserApi),
			AsRoute(access.NewAccessApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(document.NewDocumentApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(sync_feature.NewSyncApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, reminderService reminder.ReminderService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return reminderService.Start()
					},
					OnStop: func(ctx context.Context) error {
						return reminderService.Stop()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
