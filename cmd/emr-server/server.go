package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/emr/emr/internal/config"
	"github.com/emr/emr/internal/domain/admin"
	"github.com/emr/emr/internal/domain/billing"
	"github.com/emr/emr/internal/domain/careplan"
	"github.com/emr/emr/internal/domain/clinical"
	"github.com/emr/emr/internal/domain/diagnostics"
	"github.com/emr/emr/internal/domain/documents"
	"github.com/emr/emr/internal/domain/encounter"
	"github.com/emr/emr/internal/domain/identity"
	"github.com/emr/emr/internal/domain/immunization"
	"github.com/emr/emr/internal/domain/medication"
	"github.com/emr/emr/internal/domain/scheduling"
	"github.com/emr/emr/internal/platform/auth"
	"github.com/emr/emr/internal/platform/blobstore"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
	"github.com/emr/emr/internal/platform/middleware"
)

const requestTimeout = 30 * time.Second

// deps are the process-wide collaborators shared by every domain.
type deps struct {
	q       db.Querier
	tx      db.Transactor
	blobs   blobstore.Store
	emitter *events.Emitter
	tokens  *auth.TokenIssuer
	revoked *auth.TokenRevocationStore
	logger  zerolog.Logger
}

// routeRegistrar is implemented by every domain handler.
type routeRegistrar interface {
	RegisterRoutes(api *echo.Group)
}

func domainHandlers(d deps) []routeRegistrar {
	q, tx := d.q, d.tx

	patients := identity.NewPatientRepoPG(q)
	identitySvc := identity.NewService(patients, identity.NewProviderRepoPG(q), identity.NewAddressRepoPG(q), tx, d.emitter)
	authn := identity.NewAuthService(identity.NewUserRepoPG(q), identity.NewRoleRepoPG(q), d.tokens, d.revoked, tx)

	clinicalSvc := clinical.NewService(clinical.Stores{
		Records:       clinical.NewMedicalRecordRepoPG(q),
		Diagnoses:     clinical.NewDiagnosisRepoPG(q),
		Procedures:    clinical.NewProcedureRepoPG(q),
		Observations:  clinical.NewObservationRepoPG(q),
		Notes:         clinical.NewClinicalNoteRepoPG(q),
		Allergies:     clinical.NewAllergyRepoPG(q),
		Vitals:        clinical.NewVitalSignRepoPG(q),
		FamilyHistory: clinical.NewFamilyHistoryRepoPG(q),
		Referrals:     clinical.NewReferralRepoPG(q),
	}, tx)

	return []routeRegistrar{
		identity.NewHandler(identitySvc, authn, tx),
		admin.NewHandler(admin.NewService(admin.NewLocationRepoPG(q), admin.NewDepartmentRepoPG(q)), tx),
		scheduling.NewHandler(scheduling.NewService(scheduling.NewAppointmentRepoPG(q), tx), tx),
		encounter.NewHandler(encounter.NewService(encounter.NewEncounterRepoPG(q), tx, d.emitter), tx),
		clinical.NewHandler(clinicalSvc, tx),
		careplan.NewHandler(careplan.NewService(careplan.NewCarePlanRepoPG(q), careplan.NewActivityRepoPG(q), tx), tx),
		immunization.NewHandler(immunization.NewService(immunization.NewImmunizationRepoPG(q)), tx),
		medication.NewHandler(medication.NewService(medication.NewMedicationRepoPG(q), medication.NewPrescriptionRepoPG(q), tx, d.emitter), tx),
		diagnostics.NewHandler(diagnostics.NewService(diagnostics.NewLabOrderRepoPG(q), diagnostics.NewLabResultRepoPG(q), tx, d.emitter), tx),
		billing.NewHandler(billing.NewService(billing.NewBillingRepoPG(q), billing.NewItemRepoPG(q), billing.NewInsuranceRepoPG(q), tx, d.emitter), tx),
		documents.NewHandler(documents.NewService(documents.NewDocumentRepoPG(q), d.blobs, tx, d.emitter, d.logger)),
	}
}

// newEcho builds the server with the global middleware chain and every route.
// health is mounted outside /api/v1 and skips authentication.
func newEcho(cfg *config.Config, logger zerolog.Logger, d deps, health echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.BodyLimit("1M", cfg.BodyLimit))
	e.Use(middleware.SecurityHeaders(cfg.TLSEnabled))
	e.Use(middleware.Sanitize(logger))
	// Limit before authentication so unauthenticated floods and login
	// attempts are throttled too.
	e.Use(middleware.RateLimit(rateLimitCfg))
	e.Use(auth.JWTMiddleware(auth.JWTConfig{
		Issuer:      cfg.JWTIssuer,
		Audience:    cfg.JWTAudience,
		SigningKey:  []byte(cfg.JWTSigningKey),
		Skipper:     auth.AuthSkipper,
		Revocations: d.revoked,
	}))
	e.Use(middleware.Actor())
	e.Use(middleware.Audit(logger))
	e.Use(middleware.RequestTimeout(requestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", health)

	apiV1 := e.Group("/api/v1")

	auth.RegisterRevocationRoutes(apiV1, d.revoked)
	for _, h := range domainHandlers(d) {
		h.RegisterRoutes(apiV1)
	}
	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		l := newLogger("")
		l.Error().Err(err).Msg("failed to load config")
		return err
	}
	logger := newLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid config")
		return err
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, poolOptions(cfg))
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	blobs, err := blobstore.New(ctx, cfg)
	if err != nil {
		return err
	}
	pub, err := events.NewPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pub.Close()
	logger.Info().Str("blobs", cfg.BlobBackend).Str("events", cfg.EventsBackend).Msg("backends ready")

	d := deps{
		q:       pool,
		tx:      db.NewTransactor(pool),
		blobs:   blobs,
		emitter: events.NewEmitter(pub, logger),
		tokens:  auth.NewTokenIssuer([]byte(cfg.JWTSigningKey), cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL),
		revoked: auth.NewTokenRevocationStore(cfg.JWTTTL),
		logger:  logger,
	}
	defer d.revoked.Close()
	e := newEcho(cfg, logger, d, db.HealthHandler(pool, pool))
	return serve(e, cfg, logger)
}

// poolOptions maps the DB_* settings onto the pool.
func poolOptions(cfg *config.Config) db.PoolOptions {
	return db.PoolOptions{
		URL:              cfg.DatabaseURL,
		MaxConns:         cfg.DBMaxConns,
		MinConns:         cfg.DBMinConns,
		MaxConnLifetime:  cfg.DBConnLifetime,
		MaxConnIdleTime:  cfg.DBConnIdleTime,
		ConnectTimeout:   cfg.DBConnTimeout,
		StatementTimeout: cfg.DBStmtTimeout,
		ApplicationName:  "emr-server",
	}
}

// serve runs e until SIGINT or SIGTERM, then drains in-flight requests.
func serve(e *echo.Echo, cfg *config.Config, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Bool("tls", cfg.TLSEnabled).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
