package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/metrics"
	"github.com/comment-moderation-api/internal/models"
	"github.com/rs/zerolog"
)

// ToxicThreshold is the toxicity score above which content is rejected
const ToxicThreshold = 0.7

// Analyzer produces a normalized sentiment/toxicity pair for a piece of text.
// Implementations never fail the caller: any analysis problem resolves to
// neutral fallback values.
type Analyzer interface {
	Analyze(ctx context.Context, text string) models.AnalysisResult
}

// labelScore is one candidate classification returned by the inference API
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// analyzeRequest is the inference API request body
type analyzeRequest struct {
	Inputs string `json:"inputs"`
}

// HTTPAnalyzer calls a HuggingFace-style sentiment inference endpoint.
// The endpoint answers POST {"inputs": text} with [[{label, score}, ...]].
type HTTPAnalyzer struct {
	apiURL string
	apiKey string
	client *http.Client
	log    zerolog.Logger
}

// NewAnalyzer creates an HTTPAnalyzer from configuration. The request
// timeout comes from the config (5s by default); a timed-out call is
// handled through the fallback path, not surfaced.
func NewAnalyzer(cfg *config.AnalysisConfig, log zerolog.Logger) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze classifies text and maps the result onto the 1-5 sentiment scale
// plus a 0-1 toxicity score. Moderation is fail-open: a missing API key,
// transport error, timeout, non-2xx status or malformed payload all yield
// the neutral fallback {sentiment: 3, toxicity: 0} and are only logged.
// Exactly one remote call is made; there are no retries.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, text string) models.AnalysisResult {
	if a.apiKey == "" {
		a.log.Warn().Msg("Analysis API key not configured, using fallback values")
		metrics.AnalysisFallbacks.WithLabelValues("missing_credential").Inc()
		return FallbackResult()
	}

	timer := metrics.NewTimer()
	result, err := a.call(ctx, text)
	timer.ObserveDuration(metrics.AnalysisDuration)
	if err != nil {
		a.log.Error().Err(err).Msg("Text analysis failed, using fallback values")
		metrics.AnalysisFallbacks.WithLabelValues("call_failed").Inc()
		return FallbackResult()
	}

	return models.AnalysisResult{
		Sentiment:     MapSentiment(result.Label, result.Score),
		ToxicityScore: CalculateToxicity(result.Label, result.Score),
	}
}

// call performs the single inference request and returns the candidate
// with the highest score
func (a *HTTPAnalyzer) call(ctx context.Context, text string) (*labelScore, error) {
	body, err := json.Marshal(analyzeRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("analysis service returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis response: %w", err)
	}

	var predictions [][]labelScore
	if err := json.Unmarshal(payload, &predictions); err != nil {
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}
	if len(predictions) == 0 || len(predictions[0]) == 0 {
		return nil, fmt.Errorf("analysis response contains no predictions")
	}

	// Select the highest-score candidate
	best := predictions[0][0]
	for _, candidate := range predictions[0][1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}

	return &best, nil
}

// MapSentiment converts a classification label and confidence into the
// 1-5 sentiment scale. Boundary confidence 0.8 maps to the lower-intensity
// class (4 rather than 5, 2 rather than 1). Unrecognized labels are
// treated as neutral.
func MapSentiment(label string, score float64) int {
	switch normalizeLabel(label) {
	case "POS":
		if score > 0.8 {
			return 5
		}
		return 4
	case "NEU":
		return 3
	case "NEG":
		if score > 0.8 {
			return 1
		}
		return 2
	default:
		return 3
	}
}

// CalculateToxicity derives the toxicity score: the confidence value for
// negative-family labels, zero otherwise
func CalculateToxicity(label string, score float64) float64 {
	if normalizeLabel(label) == "NEG" {
		return score
	}
	return 0
}

// IsToxic reports whether a toxicity score crosses the rejection threshold
func IsToxic(score float64) bool {
	return score > ToxicThreshold
}

// FallbackResult is the neutral pair substituted when analysis is unavailable
func FallbackResult() models.AnalysisResult {
	return models.AnalysisResult{Sentiment: 3, ToxicityScore: 0}
}

// normalizeLabel collapses the label spellings used by different models
// onto the POS/NEU/NEG families
func normalizeLabel(label string) string {
	switch label {
	case "POS", "positive", "very-positive", "POSITIVE":
		return "POS"
	case "NEU", "neutral", "NEUTRAL":
		return "NEU"
	case "NEG", "negative", "very-negative", "NEGATIVE":
		return "NEG"
	default:
		return label
	}
}
