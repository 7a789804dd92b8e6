package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/CemBlt/dent-admin-app/internal/config"
	"github.com/CemBlt/dent-admin-app/internal/domain/appointment"
	"github.com/CemBlt/dent-admin-app/internal/domain/catalog"
	"github.com/CemBlt/dent-admin-app/internal/domain/dashboard"
	"github.com/CemBlt/dent-admin-app/internal/domain/doctor"
	"github.com/CemBlt/dent-admin-app/internal/domain/hospital"
	"github.com/CemBlt/dent-admin-app/internal/domain/location"
	"github.com/CemBlt/dent-admin-app/internal/domain/review"
	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/internal/domain/settings"
	"github.com/CemBlt/dent-admin-app/internal/platform/auth"
	"github.com/CemBlt/dent-admin-app/internal/platform/blobstore"
	"github.com/CemBlt/dent-admin-app/internal/platform/cache"
	"github.com/CemBlt/dent-admin-app/internal/platform/db"
	"github.com/CemBlt/dent-admin-app/internal/platform/metrics"
	"github.com/CemBlt/dent-admin-app/internal/platform/middleware"
	"github.com/CemBlt/dent-admin-app/internal/platform/notification"
	"github.com/CemBlt/dent-admin-app/internal/platform/tenant"
	"github.com/CemBlt/dent-admin-app/migrations"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "panel-server",
		Short: "Hospital admin panel API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tenantCmd())
	rootCmd.AddCommand(appointmentsCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg != nil && cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func poolOptions(cfg *config.Config) db.PoolOptions {
	return db.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnIdleTime: cfg.DBMaxIdleTime,
		AppName:         "panel-server",
	}
}

// openPool loads config and connects. Callers close the pool.
func openPool(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, poolOptions(cfg))
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the panel API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// migrationSource returns the embedded scripts unless --dir points elsewhere.
func migrationSource(cmd *cobra.Command) fs.FS {
	if f := cmd.Flag("dir"); f != nil && f.Value.String() != "" {
		return os.DirFS(f.Value.String())
	}
	return migrations.FS
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect the panel schema",
	}
	cmd.PersistentFlags().String("dir", "", "Read migrations from this directory instead of the embedded set")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := db.NewMigrator(pool, migrationSource(cmd)).Up(ctx)
			if err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			fmt.Printf("applied %d migration(s)\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they have been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrationSource(cmd)).Status(ctx)
			if err != nil {
				return fmt.Errorf("migrate status: %w", err)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tSTATE\tAPPLIED AT")
			for _, s := range statuses {
				state, at := "pending", "-"
				if s.Applied {
					state = "applied"
					if s.Modified {
						state = "modified"
					}
					at = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%03d\t%s\t%s\t%s\n", s.Version, s.Name, state, at)
			}
			return w.Flush()
		},
	})

	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage hospitals",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a hospital and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			ctx := context.Background()
			cfg, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := hospital.NewService(hospital.NewRepoPG(pool), nil, nil, nil, newLogger(cfg))
			h, err := svc.Create(ctx, name)
			if err != nil {
				return err
			}
			fmt.Printf("Created hospital %q: %s\n", h.Name, h.ID)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Hospital name")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List hospitals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			items, err := hospital.NewRepoPG(pool).List(ctx)
			if err != nil {
				return err
			}
			for _, h := range items {
				fmt.Printf("%s  %s\n", h.ID, h.Name)
			}
			return nil
		},
	})
	return cmd
}

func appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Appointment maintenance",
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Cancel overdue pending appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("hospital")
			ctx := context.Background()
			cfg, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			logger := newLogger(cfg)

			svc := appointment.NewService(appointment.NewRepoPG(pool),
				scheduling.NewResolver(scheduling.NewHolidayRepoPG(pool)), logger)
			svc.SetGraceDays(cfg.AppointmentGraceDays)

			var ids []uuid.UUID
			if raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					return fmt.Errorf("invalid --hospital: %w", err)
				}
				ids = append(ids, id)
			} else {
				items, err := hospital.NewRepoPG(pool).List(ctx)
				if err != nil {
					return err
				}
				for _, h := range items {
					ids = append(ids, h.ID)
				}
			}

			total := 0
			for _, id := range ids {
				n, err := svc.AutoCancelOverdue(ctx, id)
				if err != nil {
					return fmt.Errorf("hospital %s: %w", id, err)
				}
				total += n
			}
			fmt.Printf("Cancelled %d overdue appointment(s) across %d hospital(s).\n", total, len(ids))
			return nil
		},
	}
	sweepCmd.Flags().String("hospital", "", "Hospital id (default: every hospital)")
	cmd.AddCommand(sweepCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an HS256 panel token signed with AUTH_SIGNING_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			hospitalID, _ := cmd.Flags().GetString("hospital")
			subject, _ := cmd.Flags().GetString("subject")
			roles, _ := cmd.Flags().GetStringSlice("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if _, err := uuid.Parse(hospitalID); err != nil {
				return fmt.Errorf("invalid --hospital: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.AuthSigningKey == "" {
				return fmt.Errorf("AUTH_SIGNING_KEY is not set")
			}
			tok, err := auth.IssueToken([]byte(cfg.AuthSigningKey), cfg.AuthIssuer, subject, hospitalID, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().String("hospital", "", "Hospital id the token is scoped to")
	cmd.Flags().String("subject", "panel-admin", "Token subject")
	cmd.Flags().StringSlice("role", []string{"admin"}, "Roles (admin, staff)")
	cmd.Flags().Duration("ttl", 12*time.Hour, "Token lifetime")
	return cmd
}

// newBlobStore picks the media backend from config.
func newBlobStore(cfg *config.Config) (blobstore.Store, error) {
	if cfg.BlobBackend == "s3" {
		s3, err := blobstore.NewS3Store(blobstore.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	return blobstore.NewMemoryStore(), nil
}

// newEmailSender returns an SMTP sender when SMTP_HOST is set, otherwise a
// sender that only logs.
func newEmailSender(cfg *config.Config, logger zerolog.Logger) notification.EmailSender {
	if cfg.SMTPHost == "" {
		return notification.LogSender{Logger: logger}
	}
	return notification.NewSMTPSender(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}

// newCache connects to Redis when REDIS_URL is set. A failed connection falls
// back to no caching.
func newCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cache.Cache, func()) {
	if cfg.RedisURL == "" {
		return cache.Nop{}, func() {}
	}
	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, caching disabled")
		return cache.Nop{}, func() {}
	}
	logger.Info().Msg("connected to redis")
	return cache.NewRedis(client, "panel:", cfg.LocationCacheTTL), func() { client.Close() }
}

func authMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	jwtCfg := auth.JWTConfig{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
		JWKSURL:  cfg.AuthJWKSURL,
	}
	if cfg.AuthSigningKey != "" {
		jwtCfg.SigningKey = []byte(cfg.AuthSigningKey)
	}
	if cfg.IsDev() {
		return auth.DevAuthMiddleware(jwtCfg, cfg.DefaultTenant)
	}
	return auth.JWTMiddleware(jwtCfg)
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		fallback := newLogger(nil)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, poolOptions(cfg))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Int32("max_conns", pool.Config().MaxConns).Msg("connected to database")

	migrator := db.NewMigrator(pool, migrations.FS)
	if cfg.AutoMigrate {
		n, err := migrator.Up(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("auto-migrate failed")
		}
		logger.Info().Int("applied", n).Msg("schema up to date")
	}
	wantSchema := 0
	if scripts, err := migrator.Load(); err == nil && len(scripts) > 0 {
		wantSchema = scripts[len(scripts)-1].Version
	}

	kv, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()

	store, err := newBlobStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create blob store")
	}
	media := blobstore.NewMedia(store, cfg.MediaPublicURL)

	dataset, err := location.LoadFile(cfg.LocationDataFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.LocationDataFile).Msg("failed to load location data")
	}
	locations := location.NewDirectory(dataset, kv)

	metrics.Register()

	// Services
	tx := db.PoolTx{Pool: pool}
	catalogSvc := catalog.NewService(catalog.NewRepoPG(pool), catalog.NewAssignmentsPG(pool), tx)
	hospitalSvc := hospital.NewService(hospital.NewRepoPG(pool), locations, catalogSvc, media, logger)
	holidayRepo := scheduling.NewHolidayRepoPG(pool)
	schedulingSvc := scheduling.NewService(holidayRepo, scheduling.NewHoursRepoPG(pool))
	doctorSvc := doctor.NewService(doctor.NewRepoPG(pool), catalogSvc, schedulingSvc, media, tx, logger)
	reviewSvc := review.NewService(review.NewRepoPG(pool))

	notifyMgr := notification.NewManager(newEmailSender(cfg, logger), notification.NewTemplateEngine(), logger)
	appointmentSvc := appointment.NewService(appointment.NewRepoPG(pool), scheduling.NewResolver(holidayRepo), logger)
	appointmentSvc.SetGraceDays(cfg.AppointmentGraceDays)
	appointmentSvc.SetNotifier(appointment.NewMailNotifier(notifyMgr, hospitalSvc, logger))

	settingsSvc := settings.NewService(settings.NewRepoPG(pool), settings.NewDataSourcePG(pool), appointmentSvc)
	dashboardSvc := dashboard.NewService(appointmentSvc, doctorSvc, catalogSvc, reviewSvc, schedulingSvc)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.SecurityHeaders(middleware.SecurityConfig{
		HSTS:          !cfg.IsDev(),
		MediaPrefixes: []string{"/media/"},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Tenant-ID"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit, cfg.UploadLimit))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.NewHealthChecker(pool, wantSchema).Handler())
	e.GET("/metrics", metrics.Handler())
	if cfg.BlobBackend == "memory" {
		blobstore.NewHandler(store).RegisterRoutes(e.Group("/media"))
	}

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	apiV1 := e.Group("/api/v1")
	apiV1.Use(authMiddleware(cfg))
	apiV1.Use(tenant.Middleware(hospitalSvc, cfg.DefaultTenant))
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.RequestTimeout(cfg.RequestTimeout, "/api/v1/settings/export"))
	apiV1.Use(middleware.Audit(logger, middleware.PGAuditSink{DB: pool}))

	hospital.NewHandler(hospitalSvc).RegisterRoutes(apiV1)
	catalog.NewHandler(catalogSvc).RegisterRoutes(apiV1)
	doctor.NewHandler(doctorSvc).RegisterRoutes(apiV1)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(apiV1)
	appointment.NewHandler(appointmentSvc).RegisterRoutes(apiV1)
	review.NewHandler(reviewSvc).RegisterRoutes(apiV1)
	settings.NewHandler(settingsSvc).RegisterRoutes(apiV1)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(apiV1)
	location.NewHandler(locations).RegisterRoutes(apiV1)
	notification.NewHandler(notifyMgr, tenant.Require).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("blob_backend", cfg.BlobBackend).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	if err := notifyMgr.Drain(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("shutdown interrupted notification delivery")
	}
	logger.Info().Msg("server stopped")
	return nil
}
