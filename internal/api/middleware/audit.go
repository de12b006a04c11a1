package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// AuditLogger is an async audit log writer for mutating admin requests.
type AuditLogger struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
	ch     chan auditEntry

	mu     sync.Mutex
	closed bool
}

type auditEntry struct {
	APIKeyID     *string
	Method       string
	Path         string
	ResourceType *string
	ResourceID   *string
	StatusCode   int
	RequestBody  json.RawMessage
}

func NewAuditLogger(pool *pgxpool.Pool, logger zerolog.Logger) *AuditLogger {
	al := &AuditLogger{
		pool:   pool,
		logger: logger,
		ch:     make(chan auditEntry, 1024),
	}
	go al.drain()
	return al
}

func (al *AuditLogger) drain() {
	for entry := range al.ch {
		_, err := al.pool.Exec(
			// async writer, detached from the request context
			context.Background(),
			`INSERT INTO audit_logs (api_key_id, method, path, resource_type, resource_id, status_code, request_body, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
			entry.APIKeyID, entry.Method, entry.Path, entry.ResourceType, entry.ResourceID, entry.StatusCode, entry.RequestBody,
		)
		if err != nil {
			al.logger.Error().Err(err).Msg("failed to write audit log")
		}
	}
}

// Close stops accepting entries and closes the channel; the writer drains
// whatever is already queued. Safe to call more than once.
func (al *AuditLogger) Close() {
	al.mu.Lock()
	defer al.mu.Unlock()
	if al.closed {
		return
	}
	al.closed = true
	close(al.ch)
}

// enqueue hands an entry to the writer. Entries arriving after Close, or
// while the channel is full, are dropped with a warning.
func (al *AuditLogger) enqueue(entry auditEntry) {
	al.mu.Lock()
	defer al.mu.Unlock()
	if al.closed {
		al.logger.Warn().Str("path", entry.Path).Msg("audit logger closed, entry dropped")
		return
	}
	select {
	case al.ch <- entry:
	default:
		al.logger.Warn().Str("path", entry.Path).Msg("audit log channel full, entry dropped")
	}
}

// Middleware returns a chi middleware that logs mutating API requests.
func (al *AuditLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodDelete {
			next.ServeHTTP(w, r)
			return
		}

		var bodyBytes []byte
		if r.Body != nil {
			bodyBytes, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		resourceType, resourceID := extractResource(r.URL.Path)

		var apiKeyID *string
		if id, ok := r.Context().Value(APIKeyIDKey).(string); ok {
			apiKeyID = &id
		}

		var sanitizedBody json.RawMessage
		if len(bodyBytes) > 0 && json.Valid(bodyBytes) {
			sanitizedBody = sanitizeBody(bodyBytes)
		}

		al.enqueue(auditEntry{
			APIKeyID:     apiKeyID,
			Method:       r.Method,
			Path:         r.URL.Path,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			StatusCode:   sw.status,
			RequestBody:  sanitizedBody,
		})
	})
}

// extractResource pulls "certificates", "42" out of /api/v1/certificates/42.
func extractResource(path string) (*string, *string) {
	trimmed := strings.TrimPrefix(path, "/api/v1/")
	if trimmed == path {
		return nil, nil
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] == "" {
		return nil, nil
	}
	resourceType := parts[0]
	if len(parts) > 1 && parts[1] != "" {
		return &resourceType, &parts[1]
	}
	return &resourceType, nil
}

// sanitizeBody strips secret-bearing fields before the body is persisted.
func sanitizeBody(body []byte) json.RawMessage {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil
	}
	for key := range m {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "token") || strings.Contains(lower, "key") || strings.Contains(lower, "password") || strings.Contains(lower, "secret") {
			m[key] = "[redacted]"
		}
	}
	out, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return out
}
