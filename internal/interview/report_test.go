package interview_test

import (
	"errors"
	"testing"

	"github.com/agakshita/voxhire/internal/interview"
)

// sessionWithRatings builds a session whose responses carry the given
// ratings, one response per question.
func sessionWithRatings(roomID string, ratings ...interview.Rating) *interview.Session {
	questions := make([]interview.Question, len(ratings))
	for i := range questions {
		questions[i] = interview.Question{Text: "q", IdealAnswer: "a"}
	}
	sess := interview.NewSession(roomID, "Jordan", questions)
	for i, r := range ratings {
		sess.AppendResponse(interview.Response{
			QuestionID: i + 1,
			Question:   "q",
			Answer:     "answer",
			Rating:     r,
		})
		sess.Advance()
	}
	return sess
}

// ---------------------------------------------------------------------------
// Average and decision
// ---------------------------------------------------------------------------

func TestBuildReport_AverageAndDecision(t *testing.T) {
	cases := []struct {
		name     string
		ratings  []interview.Rating
		wantAvg  float64
		wantDec  interview.Decision
	}{
		{
			name:    "good excellent satisfactory means hire",
			ratings: []interview.Rating{interview.RatingGood, interview.RatingExcellent, interview.RatingSatisfactory},
			wantAvg: 3.0,
			wantDec: interview.DecisionHire,
		},
		{
			name:    "all poor means reject",
			ratings: []interview.Rating{interview.RatingPoor, interview.RatingPoor},
			wantAvg: 1.0,
			wantDec: interview.DecisionReject,
		},
		{
			name:    "all satisfactory means reject",
			ratings: []interview.Rating{interview.RatingSatisfactory, interview.RatingSatisfactory},
			wantAvg: 2.0,
			wantDec: interview.DecisionReject,
		},
		{
			// The threshold is strictly greater than 2.5.
			name:    "exactly 2.5 means reject",
			ratings: []interview.Rating{interview.RatingSatisfactory, interview.RatingGood},
			wantAvg: 2.5,
			wantDec: interview.DecisionReject,
		},
		{
			name:    "just above 2.5 means hire",
			ratings: []interview.Rating{interview.RatingSatisfactory, interview.RatingGood, interview.RatingGood},
			wantAvg: 2.67,
			wantDec: interview.DecisionHire,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sess := sessionWithRatings("room-1", tc.ratings...)
			report, err := interview.BuildReport(sess)
			if err != nil {
				t.Fatalf("BuildReport: %v", err)
			}
			if report.AverageScore != tc.wantAvg {
				t.Errorf("average = %v, want %v", report.AverageScore, tc.wantAvg)
			}
			if report.Decision != tc.wantDec {
				t.Errorf("decision = %s, want %s", report.Decision, tc.wantDec)
			}
		})
	}
}

func TestBuildReport_UnknownRatingDefaultsToTwo(t *testing.T) {
	sess := sessionWithRatings("room-1", interview.Rating("GARBAGE"), interview.RatingSatisfactory)
	report, err := interview.BuildReport(sess)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.AverageScore != 2.0 {
		t.Errorf("average = %v, want 2.0", report.AverageScore)
	}
}

// ---------------------------------------------------------------------------
// Counts and idempotence
// ---------------------------------------------------------------------------

func TestBuildReport_Counts(t *testing.T) {
	questions := []interview.Question{
		{Text: "q1", IdealAnswer: "a1"},
		{Text: "q2", IdealAnswer: "a2"},
		{Text: "q3", IdealAnswer: "a3"},
	}
	sess := interview.NewSession("room-1", "Jordan", questions)
	sess.AppendResponse(interview.Response{QuestionID: 1, Rating: interview.RatingGood})
	sess.Advance()

	// Session ended early: three questions, one answered.
	report, err := interview.BuildReport(sess)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.TotalQuestions != 3 {
		t.Errorf("total_questions = %d, want 3", report.TotalQuestions)
	}
	if report.AnsweredQuestions != 1 {
		t.Errorf("answered_questions = %d, want 1", report.AnsweredQuestions)
	}
}

func TestBuildReport_Idempotent(t *testing.T) {
	sess := sessionWithRatings("room-1",
		interview.RatingPoor, interview.RatingExcellent, interview.RatingGood)

	first, err := interview.BuildReport(sess)
	if err != nil {
		t.Fatalf("first BuildReport: %v", err)
	}
	second, err := interview.BuildReport(sess)
	if err != nil {
		t.Fatalf("second BuildReport: %v", err)
	}

	if first.AverageScore != second.AverageScore {
		t.Errorf("average changed on regeneration: %v vs %v", first.AverageScore, second.AverageScore)
	}
	if first.Decision != second.Decision {
		t.Errorf("decision changed on regeneration: %s vs %s", first.Decision, second.Decision)
	}
}

func TestBuildReport_NoResponses(t *testing.T) {
	sess := interview.NewSession("room-1", "Jordan", nil)
	_, err := interview.BuildReport(sess)
	if !errors.Is(err, interview.ErrNoResponses) {
		t.Fatalf("expected ErrNoResponses, got %v", err)
	}
}

func TestBuildReport_CopiesResponses(t *testing.T) {
	sess := sessionWithRatings("room-1", interview.RatingGood)
	report, err := interview.BuildReport(sess)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	report.Responses[0].Answer = "mutated"
	if sess.Responses[0].Answer == "mutated" {
		t.Error("report shares backing array with session responses")
	}
}
