package constants

import "time"

const (
	UsernameMinLength  = 3
	UsernameMaxLength  = 32
	PasswordMinLength  = 8
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32
	BcryptCost         = 12

	PostTitleMaxLength = 100

	// Shrink-to-fit bound for profile images. Uploads that already fit
	// inside this box are stored untouched.
	ProfileImageMaxDimension = 300

	// DefaultProfileImage is the placeholder asset served until a user
	// uploads their own avatar.
	DefaultProfileImage = "default.jpg"

	// ProfileImageDir is the subdirectory of the media root holding
	// uploaded avatars.
	ProfileImageDir = "images"

	MaxUploadSizeBytes    = 5 * 1024 * 1024
	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8080"
	DefaultRequestTimeout = 5 * time.Second
	DefaultAccessTokenTTL = 30 * time.Minute
	DefaultMediaDir       = "media"
	DefaultMigrationsDir  = "migrations"

	FeedSendBufferSize = 64
	FeedWriteWait      = 10 * time.Second
	FeedPongWait       = 60 * time.Second
	FeedPingPeriod     = 54 * time.Second

	RateLimitCleanupInterval          = 5 * time.Minute
	RateLimitAuthRequestsPerSecond    = 1
	RateLimitAuthBurst                = 5
	RateLimitGeneralRequestsPerSecond = 50
	RateLimitGeneralBurst             = 100

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
