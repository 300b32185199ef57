package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hiringdesk/core/cache"
	"hiringdesk/core/config"
	"hiringdesk/core/database"
	"hiringdesk/core/logger"
	"hiringdesk/core/middleware"
	"hiringdesk/core/tasks"
	"hiringdesk/externals/google"
	"hiringdesk/externals/mail"
	gateway "hiringdesk/externals/payment"
	"hiringdesk/externals/storage"
	"hiringdesk/modules/availability"
	"hiringdesk/modules/billing"
	candidaterepo "hiringdesk/modules/candidate/repository"
	"hiringdesk/modules/feedback"
	"hiringdesk/modules/interview"
	"hiringdesk/modules/notification"
	"hiringdesk/modules/payment"
	"hiringdesk/modules/scheduling"
	"hiringdesk/modules/user"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires the whole application: config, storage, the HTTP API and the
// asynq worker, then blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	defer logger.Sync()

	if _, err := database.InitDB(cfg.Database); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	db := database.GetDB()

	redisClient, err := cache.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}

	dispatcher := tasks.NewDispatcher(cfg.Redis)

	// External adapters.
	meet := google.NewMeetProvider(cfg.Google)
	paymentGateway := gateway.NewGateway(cfg.Payment)
	uploader := storage.NewUploader(cfg.AWS)
	var mailer mail.MailerInterface = mail.LogMailer{}
	if cfg.Mail.FromAddress != "" {
		mailer = mail.NewMailer(cfg.AWS, cfg.Mail.FromAddress)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	mw := middleware.NewMiddleware()
	mux := asynq.NewServeMux()

	// Module wiring. Later modules receive earlier modules' repositories and
	// services so cross-module transactions share one lock discipline.
	users := user.Init(e, db, mw)
	availabilitySlots := availability.Init(e, db, mw)
	interviews := interview.Init(e, db, mw)
	billingService, billingRepo := billing.Init(e, db, mw, users)
	candidates := candidaterepo.NewCandidateRepository(db)

	scheduling.Init(e, db, mw, mux, scheduling.Deps{
		Candidates:   candidates,
		Availability: availabilitySlots,
		Interviews:   interviews,
		Billing:      billingService,
		Users:        users,
		Dispatcher:   dispatcher,
		Meet:         meet,
	})
	feedback.Init(e, db, mw, mux, feedback.Deps{
		Interviews: interviews,
		Candidates: candidates,
		Billing:    billingService,
		Users:      users,
		Dispatcher: dispatcher,
		Uploader:   uploader,
	})
	payment.Init(e, db, mw, billingRepo, paymentGateway, redisClient, dispatcher)
	notification.Init(e, db, mw, mux, mailer, users)

	worker := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		asynq.Config{Concurrency: 10},
	)

	errCh := make(chan error, 2)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("Server:Run:Starting", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := worker.Run(mux); err != nil {
			errCh <- fmt.Errorf("task worker: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		worker.Shutdown()
		return err
	case sig := <-quit:
		logger.Info("Server:Run:Shutdown", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server:Run:HTTPShutdown", "error", err)
	}
	worker.Shutdown()
	return nil
}
