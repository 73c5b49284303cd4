package httpmetrics_test

import (
	"testing"

	"github.com/kechcole/Blog-App/internal/common/httpmetrics"
)

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name string
		path string
		want string
	}{
		{"empty path", "", "/"},
		{"root", "/", "/"},
		{"static path untouched", "/api/posts", "/api/posts"},
		{"uuid collapsed", "/api/posts/0b0c9254-52ea-4f62-8a66-7d2f4d11e847", "/api/posts/{param}"},
		{"uuid mid path", "/api/profiles/0b0c9254-52ea-4f62-8a66-7d2f4d11e847/image", "/api/profiles/{param}/image"},
		{"numeric segment collapsed", "/api/posts/42", "/api/posts/{param}"},
		{"mixed segment untouched", "/api/posts/v2", "/api/posts/v2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := httpmetrics.NormalizePath(tc.path); got != tc.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}
