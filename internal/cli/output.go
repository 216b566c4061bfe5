package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mcoot/rpsduel/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printAuthResult(v)
	case response.Me:
		o.printPlayer(v.Player)
		o.printf("Score: %d\n", v.Score)
	case response.PlayerState:
		o.printState(v)
	case response.MatchmakingStatus:
		o.printMatchmaking(v)
	case response.Match:
		o.printMatch(v)
	case response.Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printPlayer(p response.Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	o.printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	o.printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a response.AuthResponse) {
	o.printPlayer(a.Player)
	o.printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printState(s response.PlayerState) {
	o.printf("Screen: %s\n", s.Screen)
	if s.Payload != nil {
		data, _ := json.Marshal(s.Payload)
		o.printf("Payload: %s\n", data)
	}

	keys := make([]string, 0, len(s.Data))
	for k := range s.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.printf("%s: %v\n", k, s.Data[k])
	}
}

func (o *Output) printMatchmaking(m response.MatchmakingStatus) {
	o.printf("Status: %s\n", m.Status)
	o.printf("Queue size: %d\n", m.QueueSize)
	if m.Match != nil {
		o.printf("\n")
		o.printMatch(*m.Match)
	}
}

func (o *Output) printMatch(m response.Match) {
	o.printf("Match: %s (%s)\n", m.ID, m.Kind)
	o.printf("Opponent: %s\n", m.Opponent.DisplayName)
	o.printf("Round: %d\n", m.Round)
	o.printf("Phase: %s\n", m.Phase)
	if m.Phase == "countdown" {
		o.printf("Remaining: %ds\n", m.RemainingTime)
	}
	pick := "(none)"
	if m.SelectedAction != nil {
		pick = *m.SelectedAction
	}
	o.printf("Your pick: %s\n", pick)

	if r := m.LastResult; r != nil {
		o.printf("\nLast round %d: %s vs %s, you %s\n", r.Round, r.YourAction, r.OpponentAction, r.Outcome)
	}
}

func (o *Output) printLeaderboard(l response.Leaderboard) {
	if len(l.Entries) == 0 {
		o.printf("No scores yet\n")
		return
	}
	for _, e := range l.Entries {
		o.printf("%3d. %-32s %6d\n", e.Rank, e.DisplayName, e.Score)
	}
}
