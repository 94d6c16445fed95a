package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendWebhookSuccess(t *testing.T) {
	var received Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, "secret", nil, zap.NewNop())

	rate := 50.0
	streak := 3
	ok := d.Send(context.Background(), KindProgressUpdate, Payload{
		Email:          "demo@prepbuddy.com",
		CurrentDay:     12,
		CompletionRate: &rate,
		Streak:         &streak,
	})

	assert.True(t, ok)
	assert.Equal(t, KindProgressUpdate, received.Type)
	assert.Equal(t, 12, received.CurrentDay)
	require.NotNil(t, received.Streak)
	assert.Equal(t, 3, *received.Streak)
}

func TestSendNon2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, "", nil, zap.NewNop())
	ok := d.Send(context.Background(), KindDailyReminder, Payload{Email: "demo@prepbuddy.com", CurrentDay: 1})
	assert.False(t, ok, "non-2xx must report failure, not panic or retry")
}

func TestSendUnreachableEndpointIsSwallowed(t *testing.T) {
	d := NewDispatcher("http://127.0.0.1:1/notifications", "", nil, zap.NewNop())
	ok := d.Send(context.Background(), KindDailyReminder, Payload{Email: "demo@prepbuddy.com", CurrentDay: 1})
	assert.False(t, ok)
}

func TestSendNoChannelsConfigured(t *testing.T) {
	d := NewDispatcher("", "", nil, zap.NewNop())
	ok := d.Send(context.Background(), KindDailyReminder, Payload{Email: "demo@prepbuddy.com", CurrentDay: 1})
	assert.False(t, ok)
}
