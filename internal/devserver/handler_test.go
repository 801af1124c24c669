package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlistings/concierge/internal/api"
	"github.com/openlistings/concierge/internal/lead"
	"github.com/openlistings/concierge/internal/protocol"
	"github.com/openlistings/concierge/pkg/logging"
)

func newTestServer(t *testing.T) (*httptest.Server, *lead.InMemoryRepository) {
	t.Helper()
	repo := lead.NewInMemoryRepository()
	srv := httptest.NewServer(New(&Config{
		Leads:   repo,
		Metrics: NewMetrics(prometheus.NewRegistry()),
		Logger:  logging.Discard(),
	}))
	t.Cleanup(srv.Close)
	return srv, repo
}

func TestHandleChatStreamsEvents(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"message": "I want to see 3-bedroom homes"})
	resp, err := http.Post(srv.URL+"/api/chat", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "ndjson")

	var events []protocol.Event
	dec := protocol.NewDecoder(resp.Body, logging.Discard())
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		events = append(events, ev)
	}

	require.Len(t, events, 2)
	assert.Equal(t, protocol.EventStatus, events[0].Type)
	require.Equal(t, protocol.EventResult, events[1].Type)
	result := events[1].Data
	require.NotNil(t, result)
	assert.NotEmpty(t, result.ConversationID, "server issues an id when the request has none")
	assert.Equal(t, "search", result.Routing.Intent)
	assert.Empty(t, result.Profile.ContactEmail)
	assert.Contains(t, result.Reply, "[listing")
}

func TestHandleChatEchoesConversationID(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"conversation_id": "c-42", "message": "hello"})
	resp, err := http.Post(srv.URL+"/api/chat", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	dec := protocol.NewDecoder(resp.Body, logging.Discard())
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if ev.Type == protocol.EventResult {
			assert.Equal(t, "c-42", ev.Data.ConversationID)
		}
	}
}

func TestHandleChatContactCapturesLead(t *testing.T) {
	srv, _ := newTestServer(t)

	client := api.NewClient(srv.URL, api.WithLogger(logging.Discard()))
	stream, err := client.Chat(context.Background(), api.ChatRequest{Message: "reach me at sam@example.com"})
	require.NoError(t, err)
	defer stream.Close()

	var result *protocol.ChatResult
	for {
		ev, err := stream.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if ev.Type == protocol.EventResult {
			result = ev.Data
		}
	}

	require.NotNil(t, result)
	assert.True(t, result.LeadCaptured)
	assert.Equal(t, "sam@example.com", result.Profile.ContactEmail)
}

func TestHandleChatRejectsEmptyMessage(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleLead(t *testing.T) {
	srv, repo := newTestServer(t)

	body, _ := json.Marshal(lead.Submission{
		ConversationID: "c-1",
		Name:           "Jane Smith",
		Email:          "jane@example.com",
		ContactMethod:  "email",
		Intent:         "book",
	})
	resp, err := http.Post(srv.URL+"/api/lead", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ack map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.True(t, ack["ok"])

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Smith", records[0].Lead.Name)
}

func TestHandleLeadRejectsInvalid(t *testing.T) {
	srv, repo := newTestServer(t)

	body, _ := json.Marshal(lead.Submission{ConversationID: "c-1", Name: "No Contact"})
	resp, err := http.Post(srv.URL+"/api/lead", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
