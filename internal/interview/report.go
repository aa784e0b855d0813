package interview

import (
	"errors"
	"math"
	"time"
)

// ErrNoResponses is returned when a report is requested for a session that
// recorded no answers. The caller surfaces this as a "no data" outcome
// instead of fabricating a decision.
var ErrNoResponses = errors.New("no responses recorded")

// hireThreshold is the average rank a candidate must strictly exceed.
const hireThreshold = 2.5

// BuildReport derives the final report from a session's responses. The
// computation is a pure function of the responses, so regenerating from an
// unchanged session yields the same average and decision; only Date moves.
// Callers must hold the session lock.
func BuildReport(sess *Session) (*Report, error) {
	if len(sess.Responses) == 0 {
		return nil, ErrNoResponses
	}

	total := 0
	for _, r := range sess.Responses {
		total += r.Rating.Rank()
	}
	avg := float64(total) / float64(len(sess.Responses))
	avg = math.Round(avg*100) / 100

	decision := DecisionReject
	if avg > hireThreshold {
		decision = DecisionHire
	}

	responses := make([]Response, len(sess.Responses))
	copy(responses, sess.Responses)

	return &Report{
		RoomID:            sess.RoomID,
		CandidateName:     sess.CandidateName,
		Date:              time.Now().UTC(),
		Responses:         responses,
		AverageScore:      avg,
		Decision:          decision,
		TotalQuestions:    len(sess.Questions),
		AnsweredQuestions: len(responses),
	}, nil
}
