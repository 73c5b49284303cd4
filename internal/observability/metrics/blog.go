package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BlogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_requests_total",
			Help: "Total number of blog requests",
		},
		[]string{"method", "path"},
	)

	BlogRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blog_requests_in_flight",
			Help: "Number of blog requests currently being processed",
		},
	)

	BlogRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_request_duration_seconds",
			Help:    "Duration of blog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PostsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total number of posts created",
		},
	)

	PostsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_updated_total",
			Help: "Total number of posts updated",
		},
	)

	PostsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_deleted_total",
			Help: "Total number of posts deleted",
		},
	)

	ProfilesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profiles_created_total",
			Help: "Total number of profiles auto-created from user events",
		},
	)

	ProfileImagesNormalized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_images_normalized_total",
			Help: "Total number of uploaded images resized to the bound",
		},
	)

	ProfileImagesPassedThrough = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_images_passed_through_total",
			Help: "Total number of uploaded images stored untouched",
		},
	)

	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of registered users",
		},
	)

	AccessTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	FeedClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_clients_connected",
			Help: "Number of connected live feed clients",
		},
	)

	FeedMessagesBroadcast = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_messages_broadcast_total",
			Help: "Total number of messages broadcast to the live feed",
		},
	)
)
