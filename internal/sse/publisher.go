package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mcoot/rpsduel/internal/api/response"
	"github.com/mcoot/rpsduel/internal/model"
)

const (
	EventScreen      = "screen"
	EventPrivateData = "private-data"
)

// Publisher pushes screen transitions and private data to player streams.
// It remembers the last pushed state so a reconnecting client can catch up.
type Publisher struct {
	hubs      *HubManager
	mu        sync.Mutex
	snapshots map[model.PlayerID]*model.PlayerView
	logger    *slog.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(hubs *HubManager, logger *slog.Logger) *Publisher {
	return &Publisher{
		hubs:      hubs,
		snapshots: make(map[model.PlayerID]*model.PlayerView),
		logger:    logger.With(slog.String("component", "sse-publisher")),
	}
}

// Transition records the new screen and pushes it to the player's streams.
// Entering the main menu clears the player's private data and forgets the player.
func (p *Publisher) Transition(ctx context.Context, playerID model.PlayerID, screen model.Screen, payload any) error {
	data, err := json.Marshal(response.ScreenEvent{
		Screen:  string(screen),
		Payload: response.ScreenPayload(payload),
	})
	if err != nil {
		return fmt.Errorf("encode screen event: %w", err)
	}

	p.mu.Lock()
	if screen == model.ScreenMainMenu {
		// The menu with no data is what Snapshot reports for unknown players
		delete(p.snapshots, playerID)
	} else {
		view := p.snapshotLocked(playerID)
		view.Screen = screen
		view.Payload = payload
	}
	p.mu.Unlock()

	p.push(playerID, EventScreen, data)
	return nil
}

// SetPrivateData records a private value and pushes it to the player's streams.
// A nil value removes the key from the snapshot but is still pushed as null.
func (p *Publisher) SetPrivateData(ctx context.Context, playerID model.PlayerID, key model.PrivateDataKey, value any) error {
	data, err := json.Marshal(response.PrivateDataEvent{Key: string(key), Value: value})
	if err != nil {
		return fmt.Errorf("encode private data event: %w", err)
	}

	p.mu.Lock()
	if value == nil {
		if view, ok := p.snapshots[playerID]; ok {
			delete(view.Data, key)
		}
	} else {
		p.snapshotLocked(playerID).Data[key] = value
	}
	p.mu.Unlock()

	p.push(playerID, EventPrivateData, data)
	return nil
}

// Snapshot returns the player's last pushed state. Players never pushed to are on the main menu.
func (p *Publisher) Snapshot(playerID model.PlayerID) model.PlayerView {
	p.mu.Lock()
	defer p.mu.Unlock()

	view, ok := p.snapshots[playerID]
	if !ok {
		return model.PlayerView{
			PlayerID: playerID,
			Screen:   model.ScreenMainMenu,
			Data:     map[model.PrivateDataKey]any{},
		}
	}
	out := *view
	out.Data = make(map[model.PrivateDataKey]any, len(view.Data))
	for k, v := range view.Data {
		out.Data[k] = v
	}
	return out
}

// SnapshotCount returns how many players currently have non-default state
func (p *Publisher) SnapshotCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snapshots)
}

// Replay returns the events that rebuild the player's current state on a fresh stream
func (p *Publisher) Replay(playerID model.PlayerID) [][]byte {
	view := p.Snapshot(playerID)

	screen, err := json.Marshal(response.ScreenEvent{
		Screen:  string(view.Screen),
		Payload: response.ScreenPayload(view.Payload),
	})
	if err != nil {
		p.logger.Error("sse failed to encode replay", slog.Any("error", err))
		return nil
	}
	out := [][]byte{formatMessage(EventScreen, string(screen))}

	keys := make([]string, 0, len(view.Data))
	for k := range view.Data {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		data, err := json.Marshal(response.PrivateDataEvent{Key: k, Value: view.Data[model.PrivateDataKey(k)]})
		if err != nil {
			continue
		}
		out = append(out, formatMessage(EventPrivateData, string(data)))
	}
	return out
}

func (p *Publisher) snapshotLocked(playerID model.PlayerID) *model.PlayerView {
	view, ok := p.snapshots[playerID]
	if !ok {
		view = &model.PlayerView{
			PlayerID: playerID,
			Screen:   model.ScreenMainMenu,
			Data:     make(map[model.PrivateDataKey]any),
		}
		p.snapshots[playerID] = view
	}
	return view
}

func (p *Publisher) push(playerID model.PlayerID, event string, data []byte) {
	hub := p.hubs.GetHub(playerID)
	if hub == nil {
		return
	}
	hub.BroadcastEvent(event, string(data))
}
