package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completionServer returns an httptest server answering every chat-completions
// request with the given completion text.
func completionServer(t *testing.T, completion string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		resp := chatResponse{Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: completion}}}}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientClassifyParsesCompletion(t *testing.T) {
	server := completionServer(t, "Category: designer\nConfidence: 85\nExplanation: Mentions XDP templates")
	client := NewClient("test-key", WithBaseURL(server.URL))

	result, err := client.Classify(context.Background(), "XDP issue", "template broken", []string{"xdp"})
	require.NoError(t, err)

	assert.Equal(t, "designer", result.Category)
	assert.Equal(t, 85, result.Confidence)
	assert.Equal(t, "Mentions XDP templates", result.Explanation)
}

func TestClientClassifyMalformedConfidenceDefaultsTo50(t *testing.T) {
	server := completionServer(t, "Category: designer\nConfidence: very high\nExplanation: sure")
	client := NewClient("test-key", WithBaseURL(server.URL))

	result, err := client.Classify(context.Background(), "t", "c", nil)
	require.NoError(t, err)

	assert.Equal(t, "designer", result.Category)
	assert.Equal(t, 50, result.Confidence)
}

func TestClientClassifyMissingCategoryIsParseFailure(t *testing.T) {
	server := completionServer(t, "Confidence: 90\nExplanation: no label though")
	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.Classify(context.Background(), "t", "c", nil)
	assert.Error(t, err)
}

func TestClientClassifyTruncatesContent(t *testing.T) {
	var promptLen int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		promptLen = len(req.Messages[1].Content)
		resp := chatResponse{Choices: []chatChoice{{Message: chatMessage{Content: "Category: core"}}}}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	client := NewClient("test-key", WithBaseURL(server.URL))

	longContent := make([]byte, 10000)
	for i := range longContent {
		longContent[i] = 'x'
	}
	_, err := client.Classify(context.Background(), "t", string(longContent), nil)
	require.NoError(t, err)

	assert.Less(t, promptLen, 5000, "question content should be truncated before prompting")
}

func TestClassifierNeverFails(t *testing.T) {
	tests := []struct {
		name string
		llm  Labeler
	}{
		{"transport error", errorLabeler{fmt.Errorf("connection refused")}},
		{"nil labeler", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := New(tt.llm, nil)

			result := classifier.Classify(context.Background(), "vague title", "vague content", nil)

			assert.NotEmpty(t, result.Category, "fallback must always produce a category")
			assert.Equal(t, "adaptive-forms-authoring", result.Category)
			assert.Equal(t, 50, result.Confidence)
		})
	}
}

func TestClassifierFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "auth failure", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	classifier := New(NewClient("bad-key", WithBaseURL(server.URL)), nil)

	result := classifier.Classify(context.Background(), "PDF output broken", "document of record fails", nil)

	assert.Equal(t, "document-of-record", result.Category, "fallback rules should classify when the LLM errors")
	assert.Equal(t, 70, result.Confidence)
}

type errorLabeler struct{ err error }

func (e errorLabeler) Classify(context.Context, string, string, []string) (Result, error) {
	return Result{}, e.err
}
