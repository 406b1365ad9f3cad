package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration of the feedback notification channel
type Slack struct {
	botToken  string
	channelID string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for feedback notifications)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("TESTGENIE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID that receives feedback notifications",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("TESTGENIE_SLACK_CHANNEL_ID"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured checks if Slack notification is enabled
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" || x.channelID != ""
}

// Configure creates a feedback notifier. It returns nil when Slack is not
// configured.
func (x *Slack) Configure() (interfaces.Notifier, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.botToken == "" || x.channelID == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "--slack-bot-token and --slack-channel-id must be set together")
	}

	notifier, err := slack.New(x.botToken, x.channelID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack notifier")
	}
	return notifier, nil
}
