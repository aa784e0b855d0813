// Package notify pushes finished interview reports to chat channels.
// Notifiers implement the engine's report sink, so delivery failures are
// logged upstream and never affect the interview itself.
package notify

import (
	"fmt"
	"strings"

	"github.com/agakshita/voxhire/internal/interview"
)

// Summary renders a report as a short chat message.
func Summary(report *interview.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interview finished: %s (room %s)\n", report.CandidateName, report.RoomID)
	fmt.Fprintf(&b, "Decision: %s | Average score: %.2f\n", report.Decision, report.AverageScore)
	fmt.Fprintf(&b, "Answered %d of %d questions", report.AnsweredQuestions, report.TotalQuestions)

	for _, r := range report.Responses {
		fmt.Fprintf(&b, "\n  Q%d: %s", r.QuestionID, r.Rating)
		if r.FollowupAnswer != "" {
			b.WriteString(" (after follow-up)")
		}
	}
	return b.String()
}
