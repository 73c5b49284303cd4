package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kechcole/Blog-App/internal/common/constants"
	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
)

type BlogConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	MediaDir       string
	MigrationsDir  string
	RequestTimeout time.Duration
	AccessTokenTTL time.Duration
	MaxUploadSize  int64
}

func LoadBlogConfig() (BlogConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return BlogConfig{}, err
	}

	if len(jwtSecret) < constants.JWTSecretMinLength {
		return BlogConfig{}, fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(jwtSecret))
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return BlogConfig{}, err
	}

	return BlogConfig{
		HTTPPort:       getEnv("BLOG_HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		MediaDir:       getEnv("BLOG_MEDIA_DIR", constants.DefaultMediaDir),
		MigrationsDir:  getEnv("BLOG_MIGRATIONS_DIR", constants.DefaultMigrationsDir),
		RequestTimeout: getDurationEnv("BLOG_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		AccessTokenTTL: getDurationEnv("BLOG_ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		MaxUploadSize:  getInt64Env("BLOG_MAX_UPLOAD_SIZE", constants.MaxUploadSizeBytes),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getInt64Env(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
