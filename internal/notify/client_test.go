package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notifications", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := New(srv.URL, false)
	err := c.Send(context.Background(), Notification{
		ParentName:  "Jane Parent",
		Phone:       "0700000001",
		StudentName: "Emma Student",
		BusName:     "Morning Express",
		Status:      "CHECKED_IN",
		Latitude:    -1.2921,
		Longitude:   36.8219,
		When:        time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Emma Student", got.StudentName)
	assert.Equal(t, "CHECKED_IN", got.Status)
}

func TestSendGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, false)
	err := c.Send(context.Background(), Notification{Phone: "0700000001"})
	assert.Error(t, err)
}

func TestSendRequiresContact(t *testing.T) {
	c := New("http://gateway.invalid", false)
	err := c.Send(context.Background(), Notification{StudentName: "Emma"})
	assert.Error(t, err)
}

func TestSkipMode(t *testing.T) {
	c := New("http://gateway.invalid", true)
	assert.NoError(t, c.Send(context.Background(), Notification{}))
	assert.NoError(t, c.Health(context.Background()))
}
