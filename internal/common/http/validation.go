package http

import (
	"strings"

	"github.com/google/uuid"

	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
)

func ValidateUUID(s string) error {
	if s == "" {
		return commonerrors.ErrEmptyUUID
	}
	_, err := uuid.Parse(s)
	return err
}

// ExtractPathID pulls the first segment after prefix, e.g.
// ExtractPathID("/api/posts/", "/api/posts/<id>") -> "<id>".
func ExtractPathID(prefix, path string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}

	remaining := strings.TrimPrefix(path, prefix)
	parts := strings.Split(remaining, "/")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0], true
	}

	return "", false
}
