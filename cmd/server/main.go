package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medix/internal/appointment"
	authhandler "medix/internal/auth/handler"
	authservice "medix/internal/auth/service"
	"medix/internal/auth/store/revocation"
	"medix/internal/auth/store/user"
	"medix/internal/database"
	evaluationhandler "medix/internal/evaluation/handler"
	evaluationservice "medix/internal/evaluation/service"
	evaluationstore "medix/internal/evaluation/store"
	"medix/internal/facility"
	"medix/internal/jwttoken"
	"medix/internal/patient"
	"medix/internal/platform/config"
	"medix/internal/platform/httpserver"
	"medix/internal/platform/logger"
	"medix/internal/platform/metrics"
	"medix/internal/platform/middleware"
	platformredis "medix/internal/platform/redis"
	"medix/internal/room"
	"medix/internal/specialty/handler"
	specialtyservice "medix/internal/specialty/service"
	specialtystore "medix/internal/specialty/store"
	"medix/internal/staff"
	transport "medix/internal/transport/http"
	"medix/pkg/platform/tx"
)

const (
	jwtIssuer   = "medix"
	jwtAudience = "medix-api"

	shutdownGrace = 10 * time.Second
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if cfg.MigrateOnStart {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	// Without Redis the revocation list is process-local: logout still works
	// on a single instance, tokens just outlive restarts.
	var revocations interface {
		Revoke(ctx context.Context, jti string, ttl time.Duration) error
		IsRevoked(ctx context.Context, jti string) (bool, error)
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocations = revocation.NewRedis(redisClient.Client)
		log.Info("token revocation backed by redis")
	} else {
		revocations = revocation.NewInMemory()
		log.Warn("redis not configured, token revocation is process-local")
	}

	m := metrics.New()
	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, jwtIssuer, jwtAudience)
	runner := tx.NewRunner(db)

	authSvc := authservice.New(user.NewPostgres(db), tokens, revocations, log)

	specialtyStore := specialtystore.NewPostgres(db)
	specialtyProcs := specialtystore.NewPostgresProcedures(db, m)
	specialtySvc := specialtyservice.New(specialtyStore, specialtyProcs, runner, m)

	evaluationStore := evaluationstore.NewPostgres(db)
	evaluationProcs := evaluationstore.NewPostgresProcedures(db, m)
	evaluationSvc := evaluationservice.New(evaluationStore, evaluationProcs, runner)

	router := transport.NewRouter(transport.Config{
		Logger:      log,
		Metrics:     m,
		Validator:   tokenValidator{tokens},
		Revocations: revocations,
		Policy:      middleware.DefaultPolicy(),
		Handlers: []transport.Registrar{
			authhandler.New(authSvc, log),
			handler.New(specialtySvc, log),
			evaluationhandler.New(evaluationSvc, log),
			facility.NewHandler(facility.NewService(facility.NewPostgresStore(db))),
			staff.NewHandler(staff.NewService(staff.NewPostgresStore(db))),
			patient.NewHandler(patient.NewService(patient.NewPostgresStore(db))),
			room.NewHandler(room.NewService(room.NewPostgresStore(db))),
			appointment.NewHandler(appointment.NewService(appointment.NewPostgresStore(db))),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server stopped", "error", err)
		os.Exit(1)
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// tokenValidator adapts the JWT service to the middleware's claim shape.
type tokenValidator struct {
	tokens *jwttoken.JWTService
}

func (v tokenValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	claims, err := v.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{UserID: claims.UserID, Role: claims.Role, JTI: claims.ID}, nil
}
