package http

import (
	"net/http"
	"strconv"

	"github.com/kechcole/Blog-App/internal/common/constants"
	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
	"github.com/kechcole/Blog-App/internal/common/httpmetrics"
	"github.com/kechcole/Blog-App/internal/common/logger"
	"github.com/kechcole/Blog-App/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError translates service errors into HTTP responses. Domain errors
// carry their own status and safe message; anything else becomes an opaque 500.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID, _ := ctx.Value(constants.TraceIDKey).(string)

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr, traceID)
		return
	}

	logFields := logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}
	h.log.WithFields(ctx, logFields).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, CodeUnknown, "internal server error", nil, traceID)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError, traceID string) {
	ctx := r.Context()
	status := err.HTTPStatus()

	logFields := logger.Fields{
		"error_code": err.Code(),
		"category":   string(err.Category()),
		"status":     status,
		"action":     "domain_error",
	}

	switch err.Category() {
	case commonerrors.CategoryInternal:
		// Invariant violations (e.g. a duplicate profile) are bugs, not
		// user mistakes. Log loudly, answer blandly.
		h.log.WithFields(ctx, logFields).Errorf("domain error: %s", err.Error())
	default:
		if h.log.ShouldLog(logger.DEBUG) {
			h.log.WithFields(ctx, logFields).Debugf("domain error: %s", err.Error())
		}
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(err.Category()),
		err.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, err.Code(), err.Message(), nil, traceID)
}
