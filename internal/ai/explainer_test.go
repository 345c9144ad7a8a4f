package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/fransbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sais = models.Item{Sentence: "Je ___ la réponse.", Answer: "sais", Tense: "présent", Lemma: "savoir"}

func newTestExplainer(t *testing.T, handler http.HandlerFunc) *Explainer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewExplainer(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   defaultModel,
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
}

func TestExplain(t *testing.T) {
	var gotBody map[string]any
	e := newTestExplainer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("  Présent, first person singular of savoir.  "))
	})

	got, err := e.Explain(context.Background(), sais)
	require.NoError(t, err)
	assert.Equal(t, "Présent, first person singular of savoir.", got)

	assert.Equal(t, defaultModel, gotBody["model"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	user := messages[1].(map[string]any)
	assert.Contains(t, user["content"], "savoir")
	assert.Contains(t, user["content"], "sais")
}

func TestExplainEmptyChoices(t *testing.T) {
	e := newTestExplainer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := chatResponse("")
		resp["choices"] = []map[string]any{}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	_, err := e.Explain(context.Background(), sais)
	assert.Error(t, err)
}

func TestExplainServerError(t *testing.T) {
	e := newTestExplainer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})

	_, err := e.Explain(context.Background(), sais)
	assert.Error(t, err)
}

func TestExplainDisabled(t *testing.T) {
	e := NewExplainer(Config{})
	assert.Nil(t, e)
	assert.False(t, e.Enabled())

	_, err := e.Explain(context.Background(), sais)
	assert.ErrorIs(t, err, ErrDisabled)
}
