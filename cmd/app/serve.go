package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"donations/cmd/fx/config_fx"
	"donations/cmd/fx/controllers_fx"
	"donations/cmd/fx/db_fx"
	"donations/cmd/fx/donation_fx"
	"donations/cmd/fx/events_fx"
	"donations/cmd/fx/geocoder_fx"
	"donations/cmd/fx/mail_fx"
	"donations/cmd/fx/member_fx"
	"donations/internal/api/controllers"
	"donations/internal/config"
	"donations/pkg/logger"
	"donations/pkg/middleware"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply migrations before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	app := fx.New(
		config_fx.Module,
		fx.Invoke(setupLogging),
		db_fx.Module,
		member_fx.Module,
		mail_fx.Module,
		geocoder_fx.Module,
		events_fx.Module,
		donation_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
	return app.Err()
}

func setupLogging(cfg *config.Config) error {
	logger.Setup(cfg.LogLevel)
	if !migrateOnStart {
		return nil
	}
	return runMigrations(cfg)
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.WithField("port", cfg.Port).Info("Starting HTTP server")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

func ProvideRouter(cfg *config.Config, donationController *controllers.DonationController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.OptionalMemberAuthMiddleware([]byte(cfg.JWTSecret)))

	RegisterRoutes(r, donationController)

	return r
}

func RegisterRoutes(r *gin.Engine, donationController *controllers.DonationController) {
	donate := r.Group("/donate")
	donate.GET("", donationController.Index)
	donate.GET("/details", donationController.Details)
	donate.POST("/details", donationController.Details)
	donate.GET("/callback", donationController.Callback)
	donate.GET("/:uuid/pay", donationController.Pay)
	donate.GET("/:uuid/:status", donationController.Result)
}
