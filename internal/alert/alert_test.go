package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euromarts-io/euromarts/pkg/types"
)

func sampleViolation() types.Violation {
	return types.Violation{
		Check:         "unemployment_range",
		Severity:      types.SeverityError,
		CountryCode:   "GR",
		ReferenceYear: 2024,
		Message:       "unemployment rate 42.0 outside [0.0, 30.0] at 2024-01",
		ObservedAt:    time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestWebhookSink_PostsJSON(t *testing.T) {
	var got types.Violation
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL)
	require.NoError(t, sink.Send(context.Background(), sampleViolation()))
	assert.Equal(t, "unemployment_range", got.Check)
	assert.Equal(t, "GR", got.CountryCode)
}

func TestWebhookSink_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewWebhookSink(srv.URL).Send(context.Background(), sampleViolation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestDispatcher_SendsToWebhookWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(types.AlertConfig{WebhookURL: srv.URL}, nil)
	d.Dispatch(context.Background(), []types.Violation{sampleViolation(), sampleViolation()})
	assert.Equal(t, int32(2), calls.Load())
}

func TestDispatcher_SinkFailureDoesNotPanic(t *testing.T) {
	d := NewDispatcher(types.AlertConfig{WebhookURL: "http://127.0.0.1:1"}, nil)
	d.Dispatch(context.Background(), []types.Violation{sampleViolation()})
}
