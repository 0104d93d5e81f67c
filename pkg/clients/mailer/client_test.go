package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/pantry-helper/internal/config"
)

func TestSendPostsTemplate(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email/send", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	client := NewClient(config.EmailConfig{
		BaseURL:    srv.URL,
		ServiceID:  "svc",
		TemplateID: "tpl",
		PublicKey:  "pub",
		FromName:   "Pantry Helper",
	})

	err := client.Send(context.Background(), Message{
		To:      []string{"a@example.com", "b@example.com"},
		ReplyTo: "c@example.com",
		Subject: "New Event: Harvest",
		Body:    "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "svc", got.ServiceID)
	assert.Equal(t, "tpl", got.TemplateID)
	assert.Equal(t, "pub", got.UserID)
	assert.Equal(t, "a@example.com, b@example.com", got.TemplateParams["to_email"])
	assert.Equal(t, "c@example.com", got.TemplateParams["reply_to"])
}

func TestSendSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("The template ID is invalid"))
	}))
	defer srv.Close()

	client := NewClient(config.EmailConfig{BaseURL: srv.URL, ServiceID: "s", TemplateID: "t", PublicKey: "p"})
	err := client.Send(context.Background(), Message{To: []string{"a@example.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template ID is invalid")
}

func TestSendDisabled(t *testing.T) {
	client := NewClient(config.EmailConfig{})
	err := client.Send(context.Background(), Message{To: []string{"a@example.com"}})
	assert.ErrorIs(t, err, ErrDisabled)
}
