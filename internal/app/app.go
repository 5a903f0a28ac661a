package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/holkiv/topupbot/internal/archive"
	"github.com/holkiv/topupbot/internal/audit"
	"github.com/holkiv/topupbot/internal/bot"
	"github.com/holkiv/topupbot/internal/config"
	"github.com/holkiv/topupbot/internal/handlers"
	"github.com/holkiv/topupbot/internal/pg"
	"github.com/holkiv/topupbot/internal/repo"
	"github.com/holkiv/topupbot/internal/service"
	"github.com/holkiv/topupbot/pkg/logger"
	"github.com/holkiv/topupbot/pkg/paylink"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg     *config.Config
	api     *handlers.Handlers
	srv     *service.Services
	repo    *repo.Repositories
	bot     *bot.Bot
	auditor *audit.Service

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)
	conn := pg.New(pool)

	proofs, err := archive.New(cfg.ArchiveDir)
	if err != nil {
		return fmt.Errorf("can't init proof archive: %w", err)
	}

	tgBot, err := bot.New(cfg)
	if err != nil {
		return fmt.Errorf("can't init bot: %w", err)
	}

	links := paylink.NewBuilder(cfg.Wallet, cfg.LinkSecret)

	a.cfg = cfg
	a.repo = repo.New(conn, txManager)
	a.srv = service.New(a.repo, proofs, tgBot, links, txManager, cfg.AdminChatID, cfg.RemindAfter)
	tgBot.AttachServices(a.srv)
	a.bot = tgBot
	a.api = handlers.New(a.repo.OrderRepo)
	a.auditor = audit.New(a.repo.PaymentRepo, a.repo.OrderRepo, proofs, tgBot, cfg.AdminChatID, cfg.AuditEvery, cfg.ReportEvery)

	if err := a.srv.PaymentService.ResumeReminders(ctx); err != nil {
		zap.L().Error("can't resume payment reminders", zap.Error(err))
	}

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.startBot(ctx)
	a.auditor.Start(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting ops server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) startBot(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.bot.Start(ctx)
		a.srv.PaymentService.Close()
	}()
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
