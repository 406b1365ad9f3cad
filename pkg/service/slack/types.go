package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// poster is the part of the Slack API the notifier uses
type poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Message is a rendered notification
type Message struct {
	Blocks []slack.Block
	Text   string
}
