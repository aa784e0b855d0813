package evaluate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agakshita/voxhire/internal/evaluate"
	"github.com/agakshita/voxhire/internal/interview"
)

// ---------------------------------------------------------------------------
// Score mapping
// ---------------------------------------------------------------------------

func TestRateScore(t *testing.T) {
	cases := []struct {
		score float64
		want  interview.Rating
	}{
		{0.95, interview.RatingExcellent},
		{0.81, interview.RatingExcellent},
		{0.8, interview.RatingGood}, // thresholds are strict
		{0.7, interview.RatingGood},
		{0.6, interview.RatingSatisfactory},
		{0.5, interview.RatingSatisfactory},
		{0.4, interview.RatingPoor},
		{0.1, interview.RatingPoor},
		{-0.3, interview.RatingPoor},
	}
	for _, tc := range cases {
		if got := evaluate.RateScore(tc.score); got != tc.want {
			t.Errorf("RateScore(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestCosine(t *testing.T) {
	if got := evaluate.Cosine([]float64{1, 0}, []float64{1, 0}); got != 1 {
		t.Errorf("identical vectors: %v, want 1", got)
	}
	if got := evaluate.Cosine([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: %v, want 0", got)
	}
	if got := evaluate.Cosine([]float64{1, 0}, []float64{-1, 0}); got != -1 {
		t.Errorf("opposite vectors: %v, want -1", got)
	}
	if got := evaluate.Cosine([]float64{1, 2}, []float64{1}); got != 0 {
		t.Errorf("mismatched lengths: %v, want 0", got)
	}
	if got := evaluate.Cosine(nil, nil); got != 0 {
		t.Errorf("empty vectors: %v, want 0", got)
	}
}

// ---------------------------------------------------------------------------
// HTTP round-trip
// ---------------------------------------------------------------------------

func TestRate_CallsEmbeddingsEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %s, want /embeddings", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}

		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Fatalf("expected 2 inputs, got %d", len(req.Input))
		}

		// Identical vectors: similarity 1.0 -> EXCELLENT.
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.5, 0.5}},
				{"embedding": []float64{0.5, 0.5}},
			},
		})
	}))
	defer srv.Close()

	c := evaluate.New(srv.URL, "test-key", "")
	rating, err := c.Rate(context.Background(), "an answer", "the ideal")
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if rating != interview.RatingExcellent {
		t.Errorf("rating = %s, want EXCELLENT", rating)
	}
}

func TestRate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := evaluate.New(srv.URL, "test-key", "")
	if _, err := c.Rate(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error on 500 response")
	}
}
