package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	commonhttp "github.com/kechcole/Blog-App/internal/common/http"
	"github.com/kechcole/Blog-App/internal/common/jwtverify"
	"github.com/kechcole/Blog-App/internal/common/logger"
	"github.com/kechcole/Blog-App/internal/post/domain"
	"github.com/kechcole/Blog-App/internal/post/service"
)

type postRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
}

type postResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type listResponse struct {
	Posts []postResponse `json:"posts"`
}

type Handler struct {
	posts     *service.PostService
	errs      *commonhttp.ErrorHandler
	log       *logger.Logger
	jwtSecret []byte
	timeout   time.Duration
}

func NewHandler(posts *service.PostService, jwtSecret string, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		posts:     posts,
		errs:      commonhttp.NewErrorHandler(log),
		log:       log,
		jwtSecret: []byte(jwtSecret),
		timeout:   timeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/posts", h.collection)
	mux.HandleFunc("/api/posts/", h.item)
	return mux
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	id, ok := commonhttp.ExtractPathID("/api/posts/", r.URL.Path)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "post id required", nil, "")
		return
	}
	if err := commonhttp.ValidateUUID(id); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidIDFormat, "invalid post id", nil, "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	posts, err := h.posts.List(ctx)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	resp := listResponse{Posts: make([]postResponse, 0, len(posts))}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, toPostResponse(p))
	}

	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id string) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	post, err := h.posts.Get(ctx, id)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.requireClaims(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create post failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if details, ok := commonhttp.ValidateStruct(req); !ok {
		commonhttp.WriteValidationError(w, details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	post, err := h.posts.Create(ctx, claims.UserID, req.Title, req.Content)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := h.requireClaims(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("update post failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if details, ok := commonhttp.ValidateStruct(req); !ok {
		commonhttp.WriteValidationError(w, details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	post, err := h.posts.Update(ctx, claims.UserID, id, req.Title, req.Content)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := h.requireClaims(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.posts.Delete(ctx, claims.UserID, id); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireClaims guards mutations only; reads on this router stay public.
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

func toPostResponse(p domain.Post) postResponse {
	return postResponse{
		ID:        string(p.ID),
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
	}
}
