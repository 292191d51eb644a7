package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	eventID     string
	userID      string
	matchID     string
	courtNumber int
	player1     string
	player2     string
	sportID     string
	scoreJSON   string
	oldPlayer   string
	newPlayer   string
	reason      string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(queueJoinCmd)
	rootCmd.AddCommand(queueLeaveCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(overrideCmd)
	rootCmd.AddCommand(leaderboardCmd)

	statusCmd.Flags().StringVar(&eventID, "event", "", "Event id")
	statusCmd.Flags().StringVar(&userID, "user", "", "User id")

	queueJoinCmd.Flags().StringVar(&eventID, "event", "", "Event id")
	queueJoinCmd.Flags().StringVar(&userID, "user", "", "User id")
	queueLeaveCmd.Flags().StringVar(&eventID, "event", "", "Event id")
	queueLeaveCmd.Flags().StringVar(&userID, "user", "", "User id")

	assignCmd.Flags().StringVar(&eventID, "event", "", "Event id")
	assignCmd.Flags().IntVar(&courtNumber, "court", 0, "Court number")
	assignCmd.Flags().StringVar(&player1, "player1", "", "First player id")
	assignCmd.Flags().StringVar(&player2, "player2", "", "Second player id")

	startCmd.Flags().StringVar(&eventID, "event", "", "Event id")
	startCmd.Flags().StringVar(&matchID, "match", "", "Match id")

	completeCmd.Flags().StringVar(&eventID, "event", "", "Event id")
	completeCmd.Flags().StringVar(&matchID, "match", "", "Match id")
	completeCmd.Flags().StringVar(&scoreJSON, "score", "", `Score JSON, e.g. '{"sport":"badminton","sets":[{"a":21,"b":15}]}'`)

	overrideCmd.Flags().StringVar(&eventID, "event", "", "Event id")
	overrideCmd.Flags().StringVar(&matchID, "match", "", "Match id")
	overrideCmd.Flags().StringVar(&oldPlayer, "old", "", "Player to replace")
	overrideCmd.Flags().StringVar(&newPlayer, "new", "", "Substitute player")
	overrideCmd.Flags().StringVar(&reason, "reason", "", "Substitution reason")

	leaderboardCmd.Flags().StringVar(&sportID, "sport", "", "Sport id")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the matchmaking snapshot for an event or a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		if eventID != "" {
			query.Set("eventID", eventID)
		}
		if userID != "" {
			query.Set("userID", userID)
		}
		return performGetRequest("/matchmaking/status?" + query.Encode())
	},
}

var queueJoinCmd = &cobra.Command{
	Use:   "queue-join",
	Short: "Join an event's waiting queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/queue/join", map[string]any{
			"event_id": eventID,
			"user_id":  userID,
		})
	},
}

var queueLeaveCmd = &cobra.Command{
	Use:   "queue-leave",
	Short: "Leave an event's waiting queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/queue/leave", map[string]any{
			"event_id": eventID,
			"user_id":  userID,
		})
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign two queued players to a court",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/events/assign", map[string]any{
			"event_id":     eventID,
			"court_number": courtNumber,
			"player1_id":   player1,
			"player2_id":   player2,
		})
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a scheduled match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/start", map[string]any{
			"event_id": eventID,
			"match_id": matchID,
		})
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Complete an ongoing match with a score",
	RunE: func(cmd *cobra.Command, args []string) error {
		var score json.RawMessage
		if err := json.Unmarshal([]byte(scoreJSON), &score); err != nil {
			return fmt.Errorf("invalid --score JSON: %w", err)
		}
		return performPostRequest("/matches/complete", map[string]any{
			"event_id": eventID,
			"match_id": matchID,
			"score":    score,
		})
	},
}

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Substitute a player in a match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/override-player", map[string]any{
			"event_id":      eventID,
			"match_id":      matchID,
			"old_player_id": oldPlayer,
			"new_player_id": newPlayer,
			"reason":        reason,
		})
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the rating leaderboard for a sport",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard?sportID=" + url.QueryEscape(sportID))
	},
}

func performGetRequest(endpoint string) error {
	return performRequest(http.MethodGet, endpoint, nil)
}

func performPostRequest(endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return performRequest(http.MethodPost, endpoint, bytes.NewReader(body))
}

func performRequest(method, endpoint string, body io.Reader) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-User-ID", actor)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
