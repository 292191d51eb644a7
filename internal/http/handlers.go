package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mbergkvist/courtflow/internal/matchmaking"
	"github.com/mbergkvist/courtflow/internal/roster"
)

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// writeError maps matchmaking error kinds onto HTTP statuses. Anything
// without a kind is an infrastructure failure and reports 500.
func writeError(w http.ResponseWriter, err error) {
	kind := matchmaking.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case matchmaking.KindValidation:
		status = http.StatusBadRequest
	case matchmaking.KindAuthorization:
		status = http.StatusForbidden
	case matchmaking.KindNotFound:
		status = http.StatusNotFound
	case matchmaking.KindConflict, matchmaking.KindState:
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, matchmaking.ValidationError("invalid JSON body: %v", err))
		return false
	}
	return true
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) CreateEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name         string `json:"name"`
			SportID      string `json:"sport_id"`
			SkillBracket string `json:"skill_bracket"`
			CourtCount   int    `json:"court_count"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		actor := actorFromContext(r)
		if actor == "" {
			writeError(w, matchmaking.AuthorizationError("missing actor identity"))
			return
		}
		if req.Name == "" || req.SportID == "" {
			writeError(w, matchmaking.ValidationError("name and sport_id are required"))
			return
		}
		if req.CourtCount <= 0 {
			writeError(w, matchmaking.ValidationError("court_count must be positive"))
			return
		}
		bracket := roster.SkillBracket(req.SkillBracket)
		if req.SkillBracket == "" {
			bracket = roster.BracketMixed
		}

		event := &roster.Event{
			ID:           uuid.NewString(),
			Name:         req.Name,
			SportID:      req.SportID,
			HostID:       actor,
			SkillBracket: bracket,
			CourtCount:   req.CourtCount,
			Status:       roster.EventActive,
			CreatedAt:    time.Now().Unix(),
		}
		if err := s.Roster.CreateEvent(event); err != nil {
			writeError(w, err)
			return
		}
		if err := s.Engine.ConfigureCourts(event.ID, req.CourtCount, actor); err != nil {
			writeError(w, err)
			return
		}
		log.Info("Event created", "eventID", event.ID, "name", event.Name, "courts", req.CourtCount)
		writeJSON(w, http.StatusCreated, event)
	}
}

func (s *Server) JoinEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID string `json:"event_id"`
			UserID  string `json:"user_id"`
			Name    string `json:"name"`
			Role    string `json:"role"`
			Premium bool   `json:"premium"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.EventID == "" || req.UserID == "" {
			writeError(w, matchmaking.ValidationError("event_id and user_id are required"))
			return
		}
		role := roster.Role(req.Role)
		if req.Role == "" {
			role = roster.RolePlayer
		}

		participant := &roster.Participant{
			EventID:  req.EventID,
			UserID:   req.UserID,
			Name:     req.Name,
			Status:   roster.StatusRegistered,
			Role:     role,
			Premium:  req.Premium,
			JoinedAt: time.Now().Unix(),
		}
		if err := s.Roster.AddParticipant(participant); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, participant)
	}
}

func (s *Server) CheckInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID string `json:"event_id"`
			UserID  string `json:"user_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		userID := req.UserID
		if userID == "" {
			userID = actorFromContext(r)
		}
		if req.EventID == "" || userID == "" {
			writeError(w, matchmaking.ValidationError("event_id and user_id are required"))
			return
		}
		if err := s.Roster.CheckIn(req.EventID, userID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "checked_in"})
	}
}

func (s *Server) EventStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.URL.Query().Get("eventID")
		if eventID == "" {
			writeError(w, matchmaking.ValidationError("eventID is required"))
			return
		}
		view, err := s.Engine.CourtStatus(eventID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) AssignCourtHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID     string `json:"event_id"`
			CourtNumber int    `json:"court_number"`
			Player1ID   string `json:"player1_id"`
			Player2ID   string `json:"player2_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		match, err := s.Engine.AssignCourt(req.EventID, req.CourtNumber, req.Player1ID, req.Player2ID, actorFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) EndEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID string `json:"event_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if err := s.Engine.EndEvent(req.EventID, actorFromContext(r)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
	}
}

func (s *Server) StartMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID string `json:"event_id"`
			MatchID string `json:"match_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		match, err := s.Engine.StartMatch(req.EventID, req.MatchID, actorFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) CompleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID string            `json:"event_id"`
			MatchID string            `json:"match_id"`
			Score   matchmaking.Score `json:"score"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		match, ratings, err := s.Engine.CompleteMatch(req.EventID, req.MatchID, req.Score, actorFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"match":   match,
			"ratings": ratings,
		})
	}
}

func (s *Server) CancelMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID string `json:"event_id"`
			MatchID string `json:"match_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		match, err := s.Engine.CancelMatch(req.EventID, req.MatchID, actorFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) OverridePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID     string `json:"event_id"`
			MatchID     string `json:"match_id"`
			OldPlayerID string `json:"old_player_id"`
			NewPlayerID string `json:"new_player_id"`
			Reason      string `json:"reason"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		match, err := s.Engine.OverridePlayer(req.EventID, req.MatchID, req.OldPlayerID, req.NewPlayerID, req.Reason, actorFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) JoinQueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID string `json:"event_id"`
			UserID  string `json:"user_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		userID := req.UserID
		if userID == "" {
			userID = actorFromContext(r)
		}
		if err := s.Engine.JoinQueue(req.EventID, userID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "queued"})
	}
}

func (s *Server) LeaveQueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID string `json:"event_id"`
			UserID  string `json:"user_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		userID := req.UserID
		if userID == "" {
			userID = actorFromContext(r)
		}
		if err := s.Engine.LeaveQueue(req.EventID, userID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
	}
}

// MatchmakingStatusHandler serves the aggregated snapshot, keyed either by
// event or by user.
func (s *Server) MatchmakingStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if eventID := r.URL.Query().Get("eventID"); eventID != "" {
			status, err := s.Engine.Status(eventID)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, status)
			return
		}
		userID := r.URL.Query().Get("userID")
		if userID == "" {
			userID = actorFromContext(r)
		}
		status, err := s.Engine.UserStatus(userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sportID := r.URL.Query().Get("sportID")
		if sportID == "" {
			writeError(w, matchmaking.ValidationError("sportID is required"))
			return
		}
		limit := 10
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed <= 0 {
				writeError(w, matchmaking.ValidationError("invalid limit %q", limitStr))
				return
			}
			limit = parsed
		}
		board, err := s.Ratings.Leaderboard(sportID, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}

// NotifyLeaderboardHandler posts the current leaderboard to Slack.
func (s *Server) NotifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sportID := r.URL.Query().Get("sportID")
		if sportID == "" {
			writeError(w, matchmaking.ValidationError("sportID is required"))
			return
		}
		board, err := s.Ratings.Leaderboard(sportID, 10)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Notifier.SendLeaderboard(sportID, board, isDryRunFromContext(r)); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Leaderboard notification sent.")
	}
}

// NotifyMatchCompletedHandler consumes a pubsub push delivery carrying a
// completed match and relays the Slack announcement. The payload arrives
// base64-wrapped in the push envelope with msgpack inside.
func (s *Server) NotifyMatchCompletedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match completed message", "body", string(bodyBytes))
		var pushMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &pushMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		match := matchmaking.Match{}
		if err := s.pubsub.ProcessMessage(rawData, &match); err != nil {
			log.Error("Failed to decode match payload", "error", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		ratings, err := s.Ratings.GetMany([]string{match.PlayerA, match.PlayerB}, match.SportID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Notifier.SendMatchCompleted(&match, ratings, isDryRunFromContext(r)); err != nil {
			writeError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}
