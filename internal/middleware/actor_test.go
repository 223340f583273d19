package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorFromHeader(t *testing.T) {
	var got string
	h := Actor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetActor(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "u42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "u42", got)
}

func TestActorDefaultsToGuest(t *testing.T) {
	var got string
	h := Actor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetActor(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, DefaultActor, got)
}

func TestGetActorWithoutMiddleware(t *testing.T) {
	assert.Equal(t, DefaultActor, GetActor(context.Background()))
}
