package middleware

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/sitebooks/sitebooks/internal/auth"
	"github.com/sitebooks/sitebooks/internal/handler"
)

// CachedResponse is a replayable response stored against an idempotency key.
type CachedResponse struct {
	RequestHash string
	StatusCode  int
	Body        []byte
}

// IdempotencyStore keeps cached responses per (key, user) for the TTL.
type IdempotencyStore struct {
	cache *gocache.Cache
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{cache: gocache.New(ttl, ttl/2)}
}

func (s *IdempotencyStore) Get(key string, userID uuid.UUID) (*CachedResponse, bool) {
	v, ok := s.cache.Get(storeKey(key, userID))
	if !ok {
		return nil, false
	}
	cached, ok := v.(*CachedResponse)
	return cached, ok
}

func (s *IdempotencyStore) Set(key string, userID uuid.UUID, resp *CachedResponse) {
	s.cache.SetDefault(storeKey(key, userID), resp)
}

func storeKey(key string, userID uuid.UUID) string {
	return userID.String() + ":" + key
}

// Idempotency replays the cached response for a repeated mutating request
// carrying the same Idempotency-Key, and rejects reuse of a key with a
// different request body.
func Idempotency(store *IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				handler.RespondAppError(w, handler.ErrMissingIdempotencyKey, nil)
				return
			}

			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				handler.RespondAppError(w, handler.ErrInvalidRequest, nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			reqHash := computeHash(r.Method, r.URL.Path, body)

			if cached, found := store.Get(key, userID); found {
				if cached.RequestHash != reqHash {
					handler.RespondAppError(w, handler.ErrIdempotencyConflict, nil)
					return
				}

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotent-Replayed", "true")
				w.WriteHeader(cached.StatusCode)
				w.Write(cached.Body)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, body: &bytes.Buffer{}, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			store.Set(key, userID, &CachedResponse{
				RequestHash: reqHash,
				StatusCode:  rec.statusCode,
				Body:        rec.body.Bytes(),
			})
		})
	}
}

func computeHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return fmt.Sprintf("%x", h.Sum(nil))
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
