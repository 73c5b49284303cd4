package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	commonhttp "github.com/kechcole/Blog-App/internal/common/http"
	"github.com/kechcole/Blog-App/internal/common/jwtverify"
	"github.com/kechcole/Blog-App/internal/common/logger"
	"github.com/kechcole/Blog-App/internal/profile/domain"
	"github.com/kechcole/Blog-App/internal/profile/service"
)

type profileResponse struct {
	UserID    string    `json:"user_id"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
}

type Handler struct {
	profiles      *service.ProfileService
	errs          *commonhttp.ErrorHandler
	log           *logger.Logger
	jwtSecret     []byte
	timeout       time.Duration
	maxUploadSize int64
}

func NewHandler(profiles *service.ProfileService, jwtSecret string, timeout time.Duration, maxUploadSize int64, log *logger.Logger) http.Handler {
	h := &Handler{
		profiles:      profiles,
		errs:          commonhttp.NewErrorHandler(log),
		log:           log,
		jwtSecret:     []byte(jwtSecret),
		timeout:       timeout,
		maxUploadSize: maxUploadSize,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/profiles/", h.dispatch)
	return mux
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	id, ok := commonhttp.ExtractPathID("/api/profiles/", r.URL.Path)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeUserIDRequired, "user id required", nil, "")
		return
	}
	if err := commonhttp.ValidateUUID(id); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidIDFormat, "invalid user id", nil, "")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/profiles/"+id)

	switch {
	case rest == "" || rest == "/":
		if r.Method != http.MethodGet {
			commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.get(w, r, id)
	case rest == "/image":
		if r.Method != http.MethodPut {
			commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.updateImage(w, r, id)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeInvalidPath, "not found", nil, "")
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) updateImage(w http.ResponseWriter, r *http.Request, userID string) {
	claims, ok := h.requireClaims(w, r)
	if !ok {
		return
	}

	data, ok := h.readImagePart(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	profile, err := h.profiles.UpdateImage(ctx, claims.UserID, userID, data)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}

// readImagePart pulls the "image" multipart field, bounded by the configured
// upload limit.
func (h *Handler) readImagePart(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.log.Warnf("avatar upload rejected path=%s: %v", r.URL.Path, err)
		commonhttp.WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, commonhttp.CodeUploadTooLarge, "upload too large or malformed", nil, "")
		return nil, false
	}

	// An update without an image is permitted and leaves the avatar alone.
	file, _, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, true
	}
	if err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "invalid image field", nil, "")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "could not read upload", nil, "")
		return nil, false
	}

	return data, true
}

func (h *Handler) requireClaims(w http.ResponseWriter, r *http.Request) (jwtverify.Claims, bool) {
	raw := r.Header.Get("Authorization")
	if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing or invalid authorization", nil, "")
		return jwtverify.Claims{}, false
	}

	claims, err := jwtverify.ParseToken(strings.TrimPrefix(raw, "Bearer "), h.jwtSecret)
	if err != nil {
		h.log.Warnf("jwt auth failed path=%s: %v", r.URL.Path, err)
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", nil, "")
		return jwtverify.Claims{}, false
	}

	return claims, true
}

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{
		UserID:    p.UserID,
		ImagePath: p.ImagePath,
		CreatedAt: p.CreatedAt,
	}
}
