package moderation_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/rs/zerolog"
)

func TestMapSentiment(t *testing.T) {
	tests := []struct {
		name  string
		label string
		score float64
		want  int
	}{
		{name: "strong positive", label: "POS", score: 0.95, want: 5},
		{name: "weak positive", label: "POS", score: 0.6, want: 4},
		{name: "positive boundary maps to lower class", label: "POS", score: 0.8, want: 4},
		{name: "neutral", label: "NEU", score: 0.5, want: 3},
		{name: "strong negative", label: "NEG", score: 0.95, want: 1},
		{name: "weak negative", label: "NEG", score: 0.6, want: 2},
		{name: "negative boundary maps to lower-intensity class", label: "NEG", score: 0.8, want: 2},
		{name: "unknown label treated as neutral", label: "SARCASTIC", score: 0.99, want: 3},
		{name: "lowercase positive spelling", label: "positive", score: 0.9, want: 5},
		{name: "lowercase negative spelling", label: "negative", score: 0.9, want: 1},
		{name: "very-negative spelling", label: "very-negative", score: 0.5, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := moderation.MapSentiment(tt.label, tt.score)
			if got != tt.want {
				t.Errorf("MapSentiment(%q, %v) = %d, want %d", tt.label, tt.score, got, tt.want)
			}
		})
	}
}

func TestCalculateToxicity(t *testing.T) {
	tests := []struct {
		label string
		score float64
		want  float64
	}{
		{label: "NEG", score: 0.85, want: 0.85},
		{label: "NEG", score: 0.1, want: 0.1},
		{label: "POS", score: 0.95, want: 0},
		{label: "NEU", score: 0.5, want: 0},
		{label: "UNKNOWN", score: 0.9, want: 0},
	}

	for _, tt := range tests {
		got := moderation.CalculateToxicity(tt.label, tt.score)
		if got != tt.want {
			t.Errorf("CalculateToxicity(%q, %v) = %v, want %v", tt.label, tt.score, got, tt.want)
		}
	}
}

func TestIsToxic(t *testing.T) {
	tests := []struct {
		score float64
		want  bool
	}{
		{score: 0, want: false},
		{score: 0.5, want: false},
		{score: 0.7, want: false},
		{score: 0.70001, want: true},
		{score: 0.9, want: true},
		{score: 1, want: true},
	}

	for _, tt := range tests {
		if got := moderation.IsToxic(tt.score); got != tt.want {
			t.Errorf("IsToxic(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func newTestAnalyzer(url, key string, timeout time.Duration) *moderation.HTTPAnalyzer {
	return moderation.NewAnalyzer(&config.AnalysisConfig{
		APIURL:  url,
		APIKey:  key,
		Timeout: timeout,
	}, zerolog.Nop())
}

func TestAnalyze_SelectsHighestScoreLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		json.Unmarshal(body, &req)
		if req["inputs"] == "" {
			t.Error("Expected inputs field in request body")
		}

		json.NewEncoder(w).Encode([][]map[string]interface{}{{
			{"label": "NEU", "score": 0.2},
			{"label": "POS", "score": 0.9},
			{"label": "NEG", "score": 0.1},
		}})
	}))
	defer server.Close()

	analyzer := newTestAnalyzer(server.URL, "test-key", 5*time.Second)
	result := analyzer.Analyze(context.Background(), "what a great publication")

	if result.Sentiment != 5 {
		t.Errorf("Expected sentiment 5, got %d", result.Sentiment)
	}
	if result.ToxicityScore != 0 {
		t.Errorf("Expected toxicity 0, got %v", result.ToxicityScore)
	}
}

func TestAnalyze_NegativeLabelCarriesToxicity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]map[string]interface{}{{
			{"label": "NEG", "score": 0.85},
			{"label": "NEU", "score": 0.1},
		}})
	}))
	defer server.Close()

	analyzer := newTestAnalyzer(server.URL, "test-key", 5*time.Second)
	result := analyzer.Analyze(context.Background(), "this is terrible")

	if result.Sentiment != 1 {
		t.Errorf("Expected sentiment 1, got %d", result.Sentiment)
	}
	if result.ToxicityScore != 0.85 {
		t.Errorf("Expected toxicity 0.85, got %v", result.ToxicityScore)
	}
}

func TestAnalyze_MissingAPIKeyFallsBack(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	analyzer := newTestAnalyzer(server.URL, "", 5*time.Second)
	result := analyzer.Analyze(context.Background(), "anything")

	if called {
		t.Error("Expected no remote call without an API key")
	}
	if result != moderation.FallbackResult() {
		t.Errorf("Expected fallback result, got %+v", result)
	}
}

func TestAnalyze_ServerErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	analyzer := newTestAnalyzer(server.URL, "test-key", 5*time.Second)
	result := analyzer.Analyze(context.Background(), "anything")

	if result.Sentiment != 3 || result.ToxicityScore != 0 {
		t.Errorf("Expected neutral fallback, got %+v", result)
	}
}

func TestAnalyze_MalformedPayloadFallsBack(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "model loading"},
		{name: "wrong shape", body: `{"error": "rate limited"}`},
		{name: "empty predictions", body: `[[]]`},
		{name: "empty array", body: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			analyzer := newTestAnalyzer(server.URL, "test-key", 5*time.Second)
			result := analyzer.Analyze(context.Background(), "anything")

			if result != moderation.FallbackResult() {
				t.Errorf("Expected fallback result, got %+v", result)
			}
		})
	}
}

func TestAnalyze_TimeoutFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode([][]map[string]interface{}{{
			{"label": "POS", "score": 0.9},
		}})
	}))
	defer server.Close()

	analyzer := newTestAnalyzer(server.URL, "test-key", 20*time.Millisecond)
	result := analyzer.Analyze(context.Background(), "anything")

	if result != moderation.FallbackResult() {
		t.Errorf("Expected fallback result on timeout, got %+v", result)
	}
}

func TestAnalyze_UnreachableServiceFallsBack(t *testing.T) {
	// Closed server simulates connection refused
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	analyzer := newTestAnalyzer(url, "test-key", time.Second)
	result := analyzer.Analyze(context.Background(), "anything")

	if result != moderation.FallbackResult() {
		t.Errorf("Expected fallback result, got %+v", result)
	}
}

func TestFallbackResult(t *testing.T) {
	result := moderation.FallbackResult()
	if result.Sentiment != 3 {
		t.Errorf("Expected fallback sentiment 3, got %d", result.Sentiment)
	}
	if result.ToxicityScore != 0 {
		t.Errorf("Expected fallback toxicity 0, got %v", result.ToxicityScore)
	}
}
