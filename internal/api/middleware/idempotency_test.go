package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/profitbridge/platform-api/internal/idempotency"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestFingerprintIsUserScoped(t *testing.T) {
	body := []byte(`{"amount":"250.00","currency":"USD"}`)

	alice := requestFingerprint("user-a", http.MethodPost, "/v1/deposits", body)
	bob := requestFingerprint("user-b", http.MethodPost, "/v1/deposits", body)
	aliceAgain := requestFingerprint("user-a", http.MethodPost, "/v1/deposits", body)

	assert.Equal(t, alice, aliceAgain)
	assert.NotEqual(t, alice, bob)

	changedBody := requestFingerprint("user-a", http.MethodPost, "/v1/deposits", []byte(`{"amount":"300.00"}`))
	assert.NotEqual(t, alice, changedBody)
}

func TestIdempotencyMiddlewareRequiresKey(t *testing.T) {
	store := idempotency.NewStore(nil, nil, time.Minute)
	handler := IdempotencyMiddleware(store, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without an Idempotency-Key")
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/deposits", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "idempotency/missing-key")
}

func TestIdempotencyMiddlewarePassesReads(t *testing.T) {
	store := idempotency.NewStore(nil, nil, time.Minute)
	called := false
	handler := IdempotencyMiddleware(store, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/deposits", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}
