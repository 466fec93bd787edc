// Package data provides game data loaders for riftscout.
package data

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/riftscout/internal/livegame"
)

// LaneTable maps champion ids to lane probabilities, read from lanes.json:
//
//	{"64": {"TOP": 0.01, "JNG": 0.97, "MID": 0.01, "BOT": 0, "SUP": 0.01}}
//
// The file is read once, on first use.
type LaneTable struct {
	path string

	once  sync.Once
	lanes map[int]livegame.LaneProbabilities
	err   error
}

// NewLaneTable returns a table backed by the file at path.
func NewLaneTable(path string) *LaneTable {
	return &LaneTable{path: path}
}

// NewLaneTableFrom returns a table over an in-memory mapping.
func NewLaneTableFrom(lanes map[int]livegame.LaneProbabilities) *LaneTable {
	t := &LaneTable{lanes: lanes}
	t.once.Do(func() {})
	return t
}

// Load reads the file if it has not been read yet. A load error is sticky;
// the table then behaves as empty.
func (t *LaneTable) Load() error {
	t.once.Do(func() {
		raw, err := os.ReadFile(t.path)
		if err != nil {
			t.err = err
			return
		}
		t.lanes, t.err = parseLanes(raw)
	})
	return t.err
}

// For returns the probabilities for a champion, nil when unknown.
func (t *LaneTable) For(championID int) livegame.LaneProbabilities {
	if err := t.Load(); err != nil {
		return nil
	}
	return t.lanes[championID]
}

// Len returns the number of champions in the table.
func (t *LaneTable) Len() int {
	if err := t.Load(); err != nil {
		return 0
	}
	return len(t.lanes)
}

func parseLanes(raw []byte) (map[int]livegame.LaneProbabilities, error) {
	var byKey map[string]livegame.LaneProbabilities
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, fmt.Errorf("parse lanes: %w", err)
	}

	lanes := make(map[int]livegame.LaneProbabilities, len(byKey))
	for k, probs := range byKey {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		lanes[id] = probs
	}
	return lanes, nil
}
