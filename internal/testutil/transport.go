package testutil

import (
	"context"
	"sync"

	"github.com/mcoot/rpsduel/internal/model"
)

// Transition is a screen change captured by RecordingTransport
type Transition struct {
	PlayerID model.PlayerID
	Screen   model.Screen
	Payload  any
}

// PrivateData is a private data write captured by RecordingTransport
type PrivateData struct {
	PlayerID model.PlayerID
	Key      model.PrivateDataKey
	Value    any
}

// RecordingTransport records every push so tests can assert on them
type RecordingTransport struct {
	mu          sync.Mutex
	Transitions []Transition
	Data        []PrivateData
	Err         error // returned from every call when set
}

func NewRecordingTransport() *RecordingTransport {
	return &RecordingTransport{}
}

func (t *RecordingTransport) Transition(ctx context.Context, playerID model.PlayerID, screen model.Screen, payload any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Transitions = append(t.Transitions, Transition{PlayerID: playerID, Screen: screen, Payload: payload})
	return t.Err
}

func (t *RecordingTransport) SetPrivateData(ctx context.Context, playerID model.PlayerID, key model.PrivateDataKey, value any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Data = append(t.Data, PrivateData{PlayerID: playerID, Key: key, Value: value})
	return t.Err
}

// TransitionsFor returns the screens a player was sent to, in order
func (t *RecordingTransport) TransitionsFor(id model.PlayerID) []Transition {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Transition
	for _, tr := range t.Transitions {
		if tr.PlayerID == id {
			out = append(out, tr)
		}
	}
	return out
}

// LastScreen returns the most recent screen for a player, or "" if none
func (t *RecordingTransport) LastScreen(id model.PlayerID) model.Screen {
	trs := t.TransitionsFor(id)
	if len(trs) == 0 {
		return ""
	}
	return trs[len(trs)-1].Screen
}

// DataFor returns every value written under key for a player, in order
func (t *RecordingTransport) DataFor(id model.PlayerID, key model.PrivateDataKey) []any {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []any
	for _, d := range t.Data {
		if d.PlayerID == id && d.Key == key {
			out = append(out, d.Value)
		}
	}
	return out
}

// Touched reports whether any push was addressed to the player
func (t *RecordingTransport) Touched(id model.PlayerID) bool {
	return len(t.TransitionsFor(id)) > 0 || len(t.DataFor(id, model.DataRemainingTime)) > 0 ||
		len(t.DataFor(id, model.DataSelectedAction)) > 0
}

// Reset clears everything recorded so far
func (t *RecordingTransport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Transitions = nil
	t.Data = nil
}
