package service

import (
	"github.com/kechcole/Blog-App/internal/observability/metrics"
)

func incrementPostsCreated() {
	metrics.PostsCreated.Inc()
}

func incrementPostsUpdated() {
	metrics.PostsUpdated.Inc()
}

func incrementPostsDeleted() {
	metrics.PostsDeleted.Inc()
}
