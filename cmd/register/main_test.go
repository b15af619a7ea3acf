package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hackathon-hub/registration-api/internal/forms"
	"github.com/hackathon-hub/registration-api/internal/models"
	"github.com/hackathon-hub/registration-api/pkg/httpclient"
	"github.com/hackathon-hub/registration-api/pkg/regclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowForm(openAt, closeAt time.Time) *forms.FormSchema {
	return &forms.FormSchema{
		ID:          "f-1",
		HackathonID: "hack-1",
		Title:       "هاكاثون جدة",
		IsActive:    true,
		OpenAt:      &openAt,
		CloseAt:     &closeAt,
		Fields:      []forms.FieldSchema{{ID: "name", Type: forms.FieldText, Label: "الاسم"}},
	}
}

func TestClosingWatcher_UsesWindowAfterReload(t *testing.T) {
	now := time.Now()
	reloaded := windowForm(now.Add(-2*time.Hour), now.Add(-time.Minute))
	body, err := json.Marshal(models.GetFormResponse{Form: reloaded, Status: forms.GateClosed})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	client := regclient.NewClient(srv.URL, httpclient.NewClientWithTimeout(5*time.Second))
	initial := windowForm(now.Add(-time.Hour), now.Add(time.Hour))
	session := regclient.NewSession(client, "hack-1", initial, forms.GateOpen)

	assert.Equal(t, forms.GateOpen, closingWatcher(context.Background(), session).State())

	require.NoError(t, session.Reload(context.Background()))
	assert.Equal(t, forms.GateClosed, closingWatcher(context.Background(), session).State())
}
