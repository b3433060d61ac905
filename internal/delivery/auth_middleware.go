package delivery

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// maxPeekBytes bounds how much of a JSON body the credential peek will
// read; convert bodies carrying an api_key are small by construction.
const maxPeekBytes = 1 << 20

// AuthMiddleware accepts the credential from X-API-Key, a Bearer header,
// or the api_key field of a JSON body. With no key configured every
// request passes (main logs the warning once at startup).
func AuthMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := extractKey(r)
			if provided == "" {
				writeError(w, http.StatusUnauthorized, "API key required")
				return
			}
			if provided != apiKey {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractKey(r *http.Request) string {
	if k := r.Header.Get("X-API-Key"); k != "" {
		return k
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}

	// JSON bodies may carry the key inline; the body is restored for the
	// handler either way, including anything past the peek bound.
	if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "application/json") && r.Body != nil {
		orig := r.Body
		body, err := io.ReadAll(io.LimitReader(orig, maxPeekBytes))
		r.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(body), orig), orig}
		if err != nil {
			return ""
		}

		var peek struct {
			APIKey string `json:"api_key"`
		}
		if err := json.Unmarshal(body, &peek); err == nil {
			return peek.APIKey
		}
	}
	return ""
}
