package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mbergkvist/courtflow/internal/matchmaking"
	"github.com/mbergkvist/courtflow/internal/metrics"
	"github.com/mbergkvist/courtflow/internal/notifier"
	"github.com/mbergkvist/courtflow/internal/rating"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendMatchScheduled announces a freshly scheduled match and its court.
func (s *Notifier) SendMatchScheduled(match *matchmaking.Match, dryRun bool) error {
	msg := s.formatMatchScheduled(match)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendMatchStarted announces that a match has gone live.
func (s *Notifier) SendMatchStarted(match *matchmaking.Match, dryRun bool) error {
	msg := s.formatMatchStarted(match)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendMatchCompleted announces the final score and the rating movement of both players.
func (s *Notifier) SendMatchCompleted(match *matchmaking.Match, ratings map[string]rating.SkillRating, dryRun bool) error {
	msg := s.formatMatchCompleted(match, ratings)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendLeaderboard posts the current rating leaderboard for a sport.
func (s *Notifier) SendLeaderboard(sportID string, board []rating.SkillRating, dryRun bool) error {
	msg := s.formatLeaderboard(sportID, board)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatMatchScheduled creates the Slack message for a newly scheduled match using Block Kit.
func (s *Notifier) formatMatchScheduled(match *matchmaking.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏟️ Court assigned!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Court %d: %s vs %s", match.CourtNumber, match.PlayerA, match.PlayerB)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	contextText := fmt.Sprintf("Sport: %s • Estimated duration: %d min", match.SportID, match.EstimatedMinutes)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatMatchStarted creates the Slack message for a match that just went live.
func (s *Notifier) formatMatchStarted(match *matchmaking.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏁 Match started!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var timeStr string
	if match.StartTime != nil {
		timeStr = time.Unix(*match.StartTime, 0).Format("Monday 02 Jan, 15:04")
	} else {
		timeStr = time.Now().Format("Monday 02 Jan, 15:04")
	}
	detailsText := fmt.Sprintf("Court %d: %s vs %s\nStarted: %s", match.CourtNumber, match.PlayerA, match.PlayerB, timeStr)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatMatchCompleted creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatMatchCompleted(match *matchmaking.Match, ratings map[string]rating.SkillRating) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Match finished!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var resultText string
	switch match.Result {
	case matchmaking.ResultPlayerAWin:
		resultText = fmt.Sprintf("Result: %s won! 🏆", match.PlayerA)
	case matchmaking.ResultPlayerBWin:
		resultText = fmt.Sprintf("Result: %s won! 🏆", match.PlayerB)
	case matchmaking.ResultDraw:
		resultText = "Result: Draw 🤝"
	default:
		resultText = "Result: Undetermined"
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), nil, nil))

	detailsText := fmt.Sprintf("Court %d: %s vs %s", match.CourtNumber, match.PlayerA, match.PlayerB)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	var ratingFields []*slack.TextBlockObject
	for _, userID := range []string{match.PlayerA, match.PlayerB} {
		r, ok := ratings[userID]
		if !ok {
			continue
		}
		ratingText := fmt.Sprintf("%s\nMMR: %.0f (%dW/%dL)", userID, r.MMR, r.Wins, r.Losses)
		ratingFields = append(ratingFields, slack.NewTextBlockObject("plain_text", ratingText, true, false))
	}
	if len(ratingFields) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Ratings:", true, false), ratingFields, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the rating leaderboard for a sport.
func (s *Notifier) formatLeaderboard(sportID string, board []rating.SkillRating) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s Leaderboard 🏆", sportID), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(board) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No ratings yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, r := range board {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> MMR: %.0f | Win %%: %.2f%% (%d/%d)",
			rank,
			medal,
			r.UserID,
			r.MMR,
			r.WinRate*100,
			r.Wins,
			r.MatchesPlayed,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
