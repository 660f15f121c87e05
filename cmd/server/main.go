package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/multilingual_crud/internal/bootstrap"
	"github.com/Skotchmaster/multilingual_crud/internal/config"
	"github.com/Skotchmaster/multilingual_crud/internal/db"
	"github.com/Skotchmaster/multilingual_crud/internal/es"
	"github.com/Skotchmaster/multilingual_crud/internal/httpserver"
	"github.com/Skotchmaster/multilingual_crud/internal/i18n"
	"github.com/Skotchmaster/multilingual_crud/internal/logging"
	authmw "github.com/Skotchmaster/multilingual_crud/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/multilingual_crud/internal/middleware/logging"
	"github.com/Skotchmaster/multilingual_crud/internal/mykafka"
	"github.com/Skotchmaster/multilingual_crud/internal/repo"
	"github.com/Skotchmaster/multilingual_crud/internal/service"
	"github.com/Skotchmaster/multilingual_crud/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}

	if err := bootstrap.Run(logging.IntoContext(ctx, logger), gormDB, cfg); err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KafkaAddress != "" {
		producer, err = mykafka.NewProducer(cfg.KafkaAddress)
		if err != nil {
			log.Fatal(err)
		}
	}

	var userIndex *es.UserIndex
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatal(err)
		}
		userIndex = &es.UserIndex{ES: esClient, Index: "users"}
	}

	issuer := &tokens.Issuer{
		Secret:        cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
		Audience:      cfg.JWTAudience,
		AccessMinutes: cfg.AccessMinutes,
	}
	loc := i18n.New(cfg.SupportedLocales)
	r := repo.New(gormDB)

	authSvc := &service.AuthService{Repo: r, Issuer: issuer, Producer: producer, Index: userIndex}
	userSvc := &service.UserService{Repo: r, Producer: producer, Index: userIndex}
	roleSvc := &service.RoleService{Repo: r, Producer: producer}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	renderer, err := httpserver.NewTemplateRenderer("web/templates/*.html")
	if err != nil {
		log.Fatalf("template error: %v", err)
	}
	e.Renderer = renderer

	deps := httpserver.Deps{
		AuthHandler:  &httpserver.AuthHandler{Svc: authSvc, Loc: loc},
		UsersHandler: &httpserver.UsersHandler{Svc: userSvc, Search: userIndex, Loc: loc},
		RolesHandler: &httpserver.RolesHandler{Svc: roleSvc, Loc: loc},
		WebHandler:   &httpserver.WebHandler{Auth: authSvc, Users: userSvc, Loc: loc},
		AuthMW:       authmw.NewMiddleware(issuer, loc),
		LocaleMW:     loc.Middleware(),
		StaticDir:    "web/static",
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
