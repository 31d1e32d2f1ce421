package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"job-finder/internal/auth"
	"job-finder/internal/config"
	apphttp "job-finder/internal/http"
	"job-finder/internal/repository"
	"job-finder/internal/repository/mongodb"
	"job-finder/internal/repository/sqlite"
	"job-finder/internal/service"
	"job-finder/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, jobRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.Database.Driver, err)
	}
	defer closeStore()

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := jobRepo.Init(ctx); err != nil {
		logger.Fatalf("init job repository: %v", err)
	}

	userService := service.NewUserService(userRepo)
	jobService := service.NewJobService(jobRepo, userRepo)

	revoker, closeRevoker, err := buildRevoker(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup session revocation: %v", err)
	}
	defer closeRevoker()

	sessions, err := auth.NewSessionManager(cfg.Auth.Secret, time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute, revoker)
	if err != nil {
		logger.Fatalf("setup sessions: %v", err)
	}

	identity, err := auth.NewOIDCProvider(ctx, auth.OIDCConfig{
		Issuer:       cfg.Auth.Issuer,
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		BaseURL:      cfg.Server.BaseURL,
	})
	if err != nil {
		logger.Fatalf("setup identity provider: %v", err)
	}

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	opts := apphttp.Options{
		Jobs:          jobService,
		Users:         userService,
		Sessions:      sessions,
		Identity:      identity,
		Bucket:        cfg.Storage.Bucket,
		KeyPrefix:     cfg.Storage.KeyPrefix,
		LogoURLExpiry: time.Duration(cfg.Storage.URLExpiryMinutes) * time.Minute,
		MaxLogoSize:   int64(cfg.Storage.MaxLogoSizeKBytes) << 10,
		ClientURL:     cfg.Server.ClientURL,
		SecureCookie:  cfg.Auth.SecureCookie,
		Logger:        logger,
	}
	// a nil *S3Service must not become a non-nil interface
	if storageSvc != nil {
		opts.Logos = storageSvc
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	apphttp.NewHandler(opts).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func openStore(ctx context.Context, cfg config.Config) (repository.UserRepository, repository.JobRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, cfg.Database.MongoURI, cfg.Database.MongoDB)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return mongodb.NewUserRepository(db), mongodb.NewJobRepository(db), closeFn, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return sqlite.NewUserRepository(db), sqlite.NewJobRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func buildRevoker(ctx context.Context, cfg config.Config, logger *logrus.Logger) (auth.Revoker, func(), error) {
	if cfg.Redis.URL == "" {
		logger.Info("redis not configured, revoked sessions are kept in memory")
		return auth.NewMemoryRevoker(), func() {}, nil
	}
	client, err := auth.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("revoked sessions are stored in redis")
	return auth.NewRedisRevoker(client, ""), func() { _ = client.Close() }, nil
}

// buildStorage returns nil when no bucket is configured.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*storage.S3Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("storage bucket not configured, job logos disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
