package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Prince5598/Cloud-Storage/blobstore"
	"github.com/Prince5598/Cloud-Storage/config"
	"github.com/Prince5598/Cloud-Storage/database"
	"github.com/Prince5598/Cloud-Storage/identity"
	"github.com/Prince5598/Cloud-Storage/logger"
	"github.com/Prince5598/Cloud-Storage/repositories"
	"github.com/Prince5598/Cloud-Storage/services"

	"github.com/rs/zerolog/log"
)

type app struct {
	cfg      *config.Config
	store    blobstore.Store
	identity identity.Provider
	tokens   *identity.JWTProvider
	services *services.Container
}

// loadConfig falls back to defaults plus environment when the default config
// file is absent.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && cfgFile == "config.yaml" {
		cfg = config.FromEnv()
		config.AppConfig = cfg
		return cfg, nil
	}
	return nil, fmt.Errorf("load config %s: %w", cfgFile, err)
}

func openDatabase(cfg *config.Config) error {
	if err := database.Init(&cfg.Database); err != nil {
		return err
	}
	if err := database.Migrate(database.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Log)

	if err := openDatabase(cfg); err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled {
		if err := database.InitRedis(&cfg.Redis); err != nil {
			return nil, err
		}
	} else {
		log.Info().Msg("redis disabled, orphan blobs are queued in memory")
	}

	store, err := newBlobStore(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, store: store}
	if err := a.initIdentity(ctx); err != nil {
		return nil, err
	}

	repos := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	var tokens services.TokenIssuer
	if a.tokens != nil {
		tokens = a.tokens
	}
	a.services = services.NewContainer(repos, store, tokens, cfg.Lifecycle)
	return a, nil
}

func newBlobStore(cfg *config.Config) (blobstore.Store, error) {
	switch cfg.Storage.Provider {
	case "local":
		return blobstore.NewLocalStore(cfg.Storage.BasePath, cfg.Storage.PublicURL, blobstore.ThumbnailOptions{
			Width:   cfg.Thumbnail.Width,
			Height:  cfg.Thumbnail.Height,
			Quality: cfg.Thumbnail.Quality,
		})
	case "imagekit":
		if cfg.ImageKit.PrivateKey == "" {
			return nil, errors.New("imagekit private key is not configured")
		}
		return blobstore.NewImageKitStore(blobstore.ImageKitOptions{
			PrivateKey:  cfg.ImageKit.PrivateKey,
			PublicKey:   cfg.ImageKit.PublicKey,
			URLEndpoint: cfg.ImageKit.URLEndpoint,
			APIBase:     cfg.ImageKit.APIBase,
			UploadBase:  cfg.ImageKit.UploadBase,
			Folder:      cfg.ImageKit.Folder,
			Timeout:     time.Duration(cfg.ImageKit.TimeoutMs) * time.Millisecond,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Storage.Provider)
	}
}

func (a *app) initIdentity(ctx context.Context) error {
	switch a.cfg.Auth.Mode {
	case "jwt":
		provider, err := identity.NewJWTProvider(a.cfg.Auth.Secret, time.Duration(a.cfg.Auth.ExpireHours)*time.Hour)
		if err != nil {
			return err
		}
		a.identity = provider
		a.tokens = provider
	case "oidc":
		provider, err := identity.NewOIDCProvider(ctx, a.cfg.Auth.OIDCIssuer, a.cfg.Auth.OIDCClientID)
		if err != nil {
			return err
		}
		a.identity = provider
	default:
		return fmt.Errorf("unsupported auth mode %q", a.cfg.Auth.Mode)
	}
	return nil
}
