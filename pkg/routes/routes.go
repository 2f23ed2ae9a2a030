package pkg

import (
	"context"

	"CareBridge/internal/auth"
	"CareBridge/internal/care"
	"CareBridge/internal/chat"
	"CareBridge/internal/config"
	"CareBridge/internal/cycle"
	"CareBridge/internal/orders"
	"CareBridge/internal/push"
	"CareBridge/internal/ratings"
	"CareBridge/internal/reminder"
	"CareBridge/internal/vitals"
	"CareBridge/pkg/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewResendConfig),
	fx.Provide(config.NewEmailService),

	fx.Provide(auth.NewUserRepository),
	fx.Provide(auth.NewUserService),
	fx.Provide(auth.NewAuthHandler),

	fx.Provide(func(repo *auth.UserRepository) push.TokenDirectory { return repo }),
	fx.Provide(func(directory push.TokenDirectory, logger *zap.SugaredLogger) *push.Gateway {
		return push.NewGateway(directory, logger)
	}),

	fx.Provide(cycle.NewRepository),
	fx.Provide(cycle.NewService),
	fx.Provide(cycle.NewHandler),

	fx.Provide(func(repo *cycle.Repository) reminder.Directory { return repo }),
	fx.Provide(func(gateway *push.Gateway) reminder.Sender { return gateway }),
	fx.Provide(reminder.NewDailyScheduler),
	fx.Provide(func(scheduler *reminder.DailyScheduler, gateway *push.Gateway, repo *cycle.Repository, logger *zap.SugaredLogger) *reminder.CronRunner {
		return reminder.NewCronRunner(scheduler, gateway, repo, logger)
	}),
	fx.Provide(reminder.NewHandler),

	fx.Provide(orders.NewRepository),
	fx.Provide(orders.NewService),
	fx.Provide(orders.NewHandler),

	fx.Provide(chat.NewRepository),
	fx.Provide(chat.NewService),
	fx.Provide(chat.NewHandler),

	fx.Provide(vitals.NewRepository),
	fx.Provide(vitals.NewHandler),

	fx.Provide(ratings.NewRepository),
	fx.Provide(ratings.NewService),
	fx.Provide(ratings.NewHandler),

	fx.Provide(care.NewRepository),
	fx.Provide(care.NewService),
	fx.Provide(care.NewHandler),

	fx.Invoke(func(lc fx.Lifecycle, runner *reminder.CronRunner) { runner.Start(lc) }),
	fx.Invoke(RegisterRoutes))

func NewEchoServer(lc fx.Lifecycle, logger *zap.SugaredLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	port := ":8080"
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Infow("Server starting", "port", port)
			go func() {
				if err := e.Start(port); err != nil {
					logger.Errorw("Server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	authHandler *auth.AuthHandler,
	cycleHandler *cycle.Handler,
	reminderHandler *reminder.Handler,
	orderHandler *orders.Handler,
	chatHandler *chat.Handler,
	vitalsHandler *vitals.Handler,
	ratingsHandler *ratings.Handler,
	careHandler *care.Handler,
) {
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	protected := e.Group("/api")
	protected.Use(middleware.JWTMiddleware)

	protected.GET("/profile", authHandler.Profile)
	protected.PUT("/profile/device-token", authHandler.RegisterDevice)
	protected.DELETE("/profile/device-token", authHandler.UnregisterDevice)
	protected.PUT("/profile/notifications", authHandler.UpdateNotificationPrefs)

	protected.GET("/cycle", cycleHandler.GetOverview)
	protected.POST("/cycle/period", cycleHandler.LogPeriod)
	protected.PUT("/cycle/settings", cycleHandler.UpdateSettings)
	protected.PUT("/cycle/reminders", cycleHandler.SetReminders)
	protected.GET("/cycle/history", cycleHandler.GetHistory)

	protected.POST("/orders", orderHandler.CreateOrder)
	protected.GET("/orders", orderHandler.ListOrders)
	protected.PUT("/orders/:id/status", orderHandler.UpdateStatus)

	protected.POST("/messages", chatHandler.SendMessage)
	protected.GET("/messages/:peerId", chatHandler.GetConversation)

	protected.POST("/vitals", vitalsHandler.AddEntry)
	protected.GET("/vitals", vitalsHandler.ListEntries)
	protected.GET("/vitals/latest", vitalsHandler.LatestEntry)

	protected.POST("/ratings", ratingsHandler.Rate)
	protected.GET("/ratings/:doctorId", ratingsHandler.GetSummary)

	protected.GET("/assignments", careHandler.ListAssignments)
	protected.POST("/lab-reports", careHandler.AddLabReport)
	protected.GET("/lab-reports", careHandler.ListLabReports)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware, middleware.CasbinMiddleware)
	admin.POST("/assignments", careHandler.Assign)
	admin.POST("/reminders/trigger", reminderHandler.TriggerReminders)
	admin.GET("/cron/status", reminderHandler.CronStatus)
	admin.POST("/cron/restart", reminderHandler.RestartCron)
}
