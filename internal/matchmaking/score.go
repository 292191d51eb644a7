package matchmaking

// SportID identifies a sport with its own score shape and tie-break rule.
type SportID string

const (
	SportBadminton   SportID = "badminton"
	SportTableTennis SportID = "table_tennis"
	SportFutsal      SportID = "futsal"
	SportBasketball  SportID = "basketball"
)

// Frame is one scored segment of a match: a set, game, half, or quarter.
type Frame struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Score is a tagged per-sport score payload. Exactly one of the segment
// slices may be populated, and it must match the sport tag.
type Score struct {
	Sport    SportID `json:"sport"`
	Sets     []Frame `json:"sets,omitempty"`     // badminton
	Games    []Frame `json:"games,omitempty"`    // table tennis
	Halves   []Frame `json:"halves,omitempty"`   // futsal
	Quarters []Frame `json:"quarters,omitempty"` // basketball
}

// frames returns the populated segment slice for the tagged sport.
func (s Score) frames() []Frame {
	switch s.Sport {
	case SportBadminton:
		return s.Sets
	case SportTableTennis:
		return s.Games
	case SportFutsal:
		return s.Halves
	case SportBasketball:
		return s.Quarters
	default:
		return nil
	}
}

// Validate checks the score shape against its sport tag.
func (s Score) Validate() error {
	populated := 0
	for _, segs := range [][]Frame{s.Sets, s.Games, s.Halves, s.Quarters} {
		if len(segs) > 0 {
			populated++
		}
	}
	if populated != 1 {
		return ValidationError("score must populate exactly one segment list")
	}

	var min, max int
	switch s.Sport {
	case SportBadminton:
		min, max = 1, 3
		if len(s.Sets) == 0 {
			return ValidationError("badminton score requires sets")
		}
	case SportTableTennis:
		min, max = 1, 7
		if len(s.Games) == 0 {
			return ValidationError("table tennis score requires games")
		}
	case SportFutsal:
		min, max = 2, 2
		if len(s.Halves) == 0 {
			return ValidationError("futsal score requires halves")
		}
	case SportBasketball:
		min, max = 4, 4
		if len(s.Quarters) == 0 {
			return ValidationError("basketball score requires quarters")
		}
	default:
		return ValidationError("unknown sport %q", s.Sport)
	}

	frames := s.frames()
	if len(frames) < min || len(frames) > max {
		return ValidationError("%s score must have between %d and %d segments, got %d", s.Sport, min, max, len(frames))
	}
	for i, f := range frames {
		if f.A < 0 || f.B < 0 {
			return ValidationError("segment %d has a negative score", i+1)
		}
	}
	return nil
}

// Result derives the match outcome using the sport's tie-break rule.
// Racket sports count won segments first and fall back to total points;
// futsal and basketball compare total points directly. A perfectly equal
// score with no remaining tie-break is a draw.
func (s Score) Result() MatchResult {
	frames := s.frames()
	if len(frames) == 0 {
		return ResultUndetermined
	}

	switch s.Sport {
	case SportBadminton, SportTableTennis:
		wonA, wonB := 0, 0
		for _, f := range frames {
			if f.A > f.B {
				wonA++
			} else if f.B > f.A {
				wonB++
			}
		}
		if wonA != wonB {
			return winner(wonA > wonB)
		}
		return totalPointsResult(frames)
	default:
		return totalPointsResult(frames)
	}
}

func totalPointsResult(frames []Frame) MatchResult {
	totalA, totalB := 0, 0
	for _, f := range frames {
		totalA += f.A
		totalB += f.B
	}
	if totalA == totalB {
		return ResultDraw
	}
	return winner(totalA > totalB)
}

func winner(aWins bool) MatchResult {
	if aWins {
		return ResultPlayerAWin
	}
	return ResultPlayerBWin
}
