package http

import (
	"net/http"

	"github.com/kechcole/Blog-App/internal/common/httpmetrics"
	"github.com/kechcole/Blog-App/internal/common/logger"
)

// BuildBaseHandler wraps handler in the standard middleware chain. The max
// request size guard sits inside the chain so uploads on multipart routes can
// opt into a larger bound before it runs.
func BuildBaseHandler(log *logger.Logger, maxRequestSize int64, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxSize := MaxRequestSizeMiddleware(maxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(recovery(traceID(maxSize(metrics.Wrap(handler))))))
}
