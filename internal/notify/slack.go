package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/agakshita/voxhire/internal/interview"
)

// SlackNotifier posts report summaries to a Slack channel.
type SlackNotifier struct {
	api     *slack.Client
	channel string
}

// NewSlack creates a notifier for the given bot token and channel.
func NewSlack(botToken, channel string) *SlackNotifier {
	return &SlackNotifier{
		api:     slack.New(botToken),
		channel: channel,
	}
}

// ReportReady posts the report summary as a block message.
func (n *SlackNotifier) ReportReady(ctx context.Context, report *interview.Report) error {
	headerText := slack.NewTextBlockObject(slack.MarkdownType,
		fmt.Sprintf("*Interview finished: %s*\nDecision: `%s` | Average score: `%.2f`",
			report.CandidateName, report.Decision, report.AverageScore),
		false, false)
	headerSection := slack.NewSectionBlock(headerText, nil, nil)

	contextElements := []slack.MixedElement{
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("Room `%s` | Answered %d of %d questions",
				report.RoomID, report.AnsweredQuestions, report.TotalQuestions),
			false, false),
	}
	contextBlock := slack.NewContextBlock("", contextElements...)

	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionBlocks(headerSection, slack.NewDividerBlock(), contextBlock),
	)
	if err != nil {
		return fmt.Errorf("posting to Slack channel %s: %w", n.channel, err)
	}
	return nil
}
