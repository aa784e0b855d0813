// Package interview defines the data model for a voice interview session:
// questions, candidate responses, ordinal ratings, and the final report.
package interview

import "time"

// Rating is the ordinal evaluation of a single answer.
type Rating string

const (
	RatingPoor         Rating = "POOR"
	RatingSatisfactory Rating = "SATISFACTORY"
	RatingGood         Rating = "GOOD"
	RatingExcellent    Rating = "EXCELLENT"
)

// Rank maps a rating to its numeric rank (POOR=1 .. EXCELLENT=4).
// Unknown ratings default to 2 so a single bad value from the evaluator
// cannot sink or inflate an otherwise consistent report.
func (r Rating) Rank() int {
	switch r {
	case RatingPoor:
		return 1
	case RatingSatisfactory:
		return 2
	case RatingGood:
		return 3
	case RatingExcellent:
		return 4
	default:
		return 2
	}
}

// Better reports whether r ranks strictly above other.
func (r Rating) Better(other Rating) bool {
	return r.Rank() > other.Rank()
}

// NeedsFollowup reports whether an answer with this rating earns the
// one-shot clarifying follow-up.
func (r Rating) NeedsFollowup() bool {
	return r == RatingPoor || r == RatingSatisfactory
}

// Valid reports whether r is one of the four known ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingPoor, RatingSatisfactory, RatingGood, RatingExcellent:
		return true
	}
	return false
}

// State represents where a session is in the interview flow.
type State string

const (
	// StateIntro means the intro has been played and the session is
	// waiting for the candidate's first utterance.
	StateIntro State = "intro"
	// StateQuestion means a question has been asked and the session is
	// waiting for the candidate's answer.
	StateQuestion State = "question"
	// StateFollowup means a follow-up has been asked for the current
	// question and the session is waiting for the clarifying answer.
	StateFollowup State = "followup"
	// StateDone means the interview concluded and the report exists.
	StateDone State = "done"
)

// Question is one entry of a question set. Immutable once fetched.
type Question struct {
	ID          int    `json:"question_id" yaml:"question_id"`
	Text        string `json:"question" yaml:"question"`
	IdealAnswer string `json:"ideal_answer" yaml:"ideal_answer"`
	Topic       string `json:"topic,omitempty" yaml:"topic,omitempty"`
	Difficulty  string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// Response records the candidate's answer to one question. It is appended
// exactly once per question and amended at most once more when a follow-up
// attaches its answer and possibly upgrades the rating.
type Response struct {
	QuestionID     int    `json:"question_id"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	Rating         Rating `json:"rating"`
	IdealAnswer    string `json:"ideal_answer"`
	FollowupText   string `json:"followup_text,omitempty"`
	FollowupAnswer string `json:"followup_answer,omitempty"`
}

// Decision is the final hire/reject outcome.
type Decision string

const (
	DecisionHire   Decision = "HIRE"
	DecisionReject Decision = "REJECT"
)

// Report is the final scored summary of a session. Created once, immutable
// thereafter.
type Report struct {
	RoomID            string     `json:"room_id"`
	CandidateName     string     `json:"candidate_name"`
	Date              time.Time  `json:"date"`
	Responses         []Response `json:"responses"`
	AverageScore      float64    `json:"average_score"`
	Decision          Decision   `json:"decision"`
	TotalQuestions    int        `json:"total_questions"`
	AnsweredQuestions int        `json:"answered_questions"`
}
