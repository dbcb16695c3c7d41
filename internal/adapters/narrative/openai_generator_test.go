package narrative_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/narrative"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/narrative"
)

var scrapyard = narrative.Request{
	Location:    "The Scrapyard",
	Environment: "rusted hulks",
	Factions:    []string{"Rust Eaters", "Chrome Saints"},
}

// completionServer answers every chat completion with content, or with status when it is not 200
func completionServer(t *testing.T, status int, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
			return
		}
		body := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGenerator(url string) *adapter.OpenAIGenerator {
	return adapter.NewOpenAIGenerator(adapter.Config{
		APIKey:            "test-key",
		BaseURL:           url,
		Model:             "test-model",
		RequestsPerMinute: 6000,
	}, nil)
}

func TestOpenAIGenerator_ParsesEncounter(t *testing.T) {
	// Arrange
	var seen map[string]any
	srv := completionServer(t, http.StatusOK, `{"faction":"Chrome Saints","description":"They offer a polished bolt."}`, &seen)
	gen := newGenerator(srv.URL)

	// Act
	resp, err := gen.Generate(context.Background(), scrapyard)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, narrative.Response{Faction: "Chrome Saints", Description: "They offer a polished bolt."}, resp)
	assert.Equal(t, "test-model", seen["model"])
	messages, ok := seen["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	user := messages[1].(map[string]any)
	assert.Contains(t, user["content"], "The Scrapyard")
}

func TestOpenAIGenerator_AcceptsFencedJSON(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "```json\n{\"faction\":\"Rust Eaters\",\"description\":\"They sniff the air.\"}\n```", nil)

	resp, err := newGenerator(srv.URL).Generate(context.Background(), scrapyard)

	require.NoError(t, err)
	assert.Equal(t, "Rust Eaters", resp.Faction)
}

func TestOpenAIGenerator_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"empty content", http.StatusOK, ""},
		{"prose instead of json", http.StatusOK, "A raider waves at you."},
		{"missing description", http.StatusOK, `{"faction":"Rust Eaters"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := completionServer(t, tt.status, tt.content, nil)

			_, err := newGenerator(srv.URL).Generate(context.Background(), scrapyard)

			assert.ErrorIs(t, err, adapter.ErrGenerationFailed)
		})
	}
}

func TestOpenAIGenerator_HonoursContext(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{"faction":"a","description":"b"}`, nil)
	gen := adapter.NewOpenAIGenerator(adapter.Config{BaseURL: srv.URL, Model: "m", RequestsPerMinute: 1}, nil)
	_, err := gen.Generate(context.Background(), scrapyard)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// the second call within the minute has to wait for the limiter
	_, err = gen.Generate(ctx, scrapyard)

	assert.ErrorIs(t, err, adapter.ErrGenerationFailed)
}
