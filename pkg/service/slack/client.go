package slack

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
	"github.com/slack-go/slack"
)

const (
	// maxSectionTextBytes is the Block Kit limit for section text
	maxSectionTextBytes = 3000
	// maxFallbackTextBytes bounds the notification fallback text
	maxFallbackTextBytes = 4000
)

// client implements interfaces.Notifier
type client struct {
	api       poster
	channelID string
}

var _ interfaces.Notifier = (*client)(nil)

// Option is a functional option for client configuration
type Option func(*client)

// WithAPI replaces the Slack API client
func WithAPI(api poster) Option {
	return func(c *client) {
		c.api = api
	}
}

// New creates a notifier posting to channelID with the provided bot token
func New(token, channelID string, opts ...Option) (interfaces.Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	c := &client{
		api:       slack.New(token),
		channelID: channelID,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NotifyFeedback posts a feedback entry to the configured channel
func (c *client) NotifyFeedback(ctx context.Context, feedback *model.Feedback) error {
	msg := BuildFeedbackMessage(feedback)

	_, ts, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(msg.Blocks...),
		slack.MsgOptionText(msg.Text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post feedback to Slack",
			goerr.V("channel_id", c.channelID),
			goerr.V("feedback_id", feedback.ID))
	}

	logging.From(ctx).Debug("feedback posted to Slack",
		"channel_id", c.channelID,
		"feedback_id", feedback.ID,
		"ts", ts)
	return nil
}

// BuildFeedbackMessage renders a feedback entry as Block Kit sections, one
// per non-empty comment
func BuildFeedbackMessage(feedback *model.Feedback) *Message {
	header := ":memo: New feedback"
	if feedback.SessionID != "" {
		header += fmt.Sprintf(" for session `%s`", feedback.SessionID)
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, header, false, false), nil, nil),
	}
	fallback := []string{header}

	comments := []struct {
		title string
		body  string
	}{
		{title: "Document upload", body: feedback.UploadComment},
		{title: "Test cases", body: feedback.TestCaseComment},
		{title: "Test steps", body: feedback.TestStepComment},
	}
	for _, cm := range comments {
		body := strings.TrimSpace(cm.body)
		if body == "" {
			continue
		}
		text := truncateToMaxBytes(fmt.Sprintf("*%s*\n%s", cm.title, body), maxSectionTextBytes)
		blocks = append(blocks,
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
		)
		fallback = append(fallback, cm.title+": "+body)
	}

	return &Message{
		Blocks: blocks,
		Text:   truncateToMaxBytes(strings.Join(fallback, "\n"), maxFallbackTextBytes),
	}
}

// truncateToMaxBytes cuts s to at most maxBytes without splitting a UTF-8
// sequence, marking the cut with an ellipsis
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	const ellipsis = "…"
	limit := maxBytes - len(ellipsis)
	if limit <= 0 {
		return ""
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + ellipsis
}
