package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/pevans/forumscout/forum"
)

// maxQuestionsPerMessage caps the per-question blocks in one Slack message to
// stay under the Block Kit size limits. The remainder is noted in a trailing
// context block.
const maxQuestionsPerMessage = 10

// SlackSender delivers per-category messages through the Slack Web API.
type SlackSender struct {
	client *slack.Client
}

// NewSlackSender creates a Slack sender using a bot token. Extra options are
// forwarded to the underlying client (tests use slack.OptionAPIURL).
func NewSlackSender(token string, opts ...slack.Option) *SlackSender {
	return &SlackSender{client: slack.New(token, opts...)}
}

// Send posts one Block Kit message for the category to its channel.
func (s *SlackSender) Send(ctx context.Context, msg Message) error {
	_, _, err := s.client.PostMessageContext(ctx, msg.Channel,
		slack.MsgOptionText(summaryText(msg), false),
		slack.MsgOptionBlocks(buildBlocks(msg)...),
	)
	if err != nil {
		return fmt.Errorf("failed to post to %s: %w", msg.Channel, err)
	}
	return nil
}

// summaryText is the plain fallback shown in notifications.
func summaryText(msg Message) string {
	return fmt.Sprintf("%d unanswered %s question(s) for %s",
		len(msg.Questions), msg.Category, strings.Join(msg.Mentions, ", "))
}

func buildBlocks(msg Message) []slack.Block {
	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("%s\n*%d* unanswered *%s* question(s) need attention:",
					strings.Join(msg.Mentions, " "), len(msg.Questions), msg.Category),
				false, false),
			nil, nil),
		slack.NewDividerBlock(),
	}

	shown := msg.Questions
	if len(shown) > maxQuestionsPerMessage {
		shown = shown[:maxQuestionsPerMessage]
	}

	for i, q := range shown {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, questionText(q), false, false),
			nil, nil))
		if i < len(shown)-1 {
			blocks = append(blocks, slack.NewDividerBlock())
		}
	}

	if len(msg.Questions) > len(shown) {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("_Showing %d of %d questions. Check the email report for the complete list._",
					len(shown), len(msg.Questions)),
				false, false)))
	}

	return blocks
}

func questionText(q forum.QuestionRecord) string {
	return fmt.Sprintf("*<%s|%s>*\nBy: %s on %s\nID: %s", q.URL, q.Title, q.Author, q.Date, q.ID)
}
