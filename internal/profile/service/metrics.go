package service

import "github.com/kechcole/Blog-App/internal/observability/metrics"

func incrementProfilesCreated() {
	metrics.ProfilesCreated.Inc()
}
