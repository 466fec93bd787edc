package livegame

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when a payload does not have the
// expected top-level shape. Missing optional fields never produce it.
var ErrMalformedPayload = errors.New("malformed live game payload")

// Payload is the live match snapshot handed to the view layer.
type Payload struct {
	InGame          bool          `json:"in_game"`
	GameID          int64         `json:"game_id,omitempty"`
	GameMode        string        `json:"game_mode,omitempty"`
	GameQueueID     int           `json:"game_queue_id,omitempty"`
	GameQueueConfig int           `json:"game_queue_config_id,omitempty"`
	GameStartTime   int64         `json:"game_start_time"`
	GameLength      int64         `json:"game_length"`
	BannedChampions []BanRecord   `json:"banned_champions"`
	Participants    []Participant `json:"participants"`
	GameName        string        `json:"gameName,omitempty"`
	TagLine         string        `json:"tagLine,omitempty"`
}

// QueueID resolves the queue id from whichever alias field is set.
func (p *Payload) QueueID() int {
	if p.GameQueueID != 0 {
		return p.GameQueueID
	}
	return p.GameQueueConfig
}

// Team returns the participants of one side in payload order.
func (p *Payload) Team(teamID int) []Participant {
	var team []Participant
	for _, pt := range p.Participants {
		if pt.TeamID == teamID {
			team = append(team, pt)
		}
	}
	return team
}

// DecodePayload parses a live game payload. Shape violations such as a
// non-array participants field are reported as ErrMalformedPayload.
func DecodePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &p, nil
}

// UnmarshalJSON keeps numeric and boolean metrics and drops the rest.
// Riot mixes array-valued entries (legendaryItemUsed) into challenges.
func (c *Challenges) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*c = nil
		return nil
	}

	out := make(Challenges, len(raw))
	for k, v := range raw {
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			out[k] = f
			continue
		}
		var b bool
		if err := json.Unmarshal(v, &b); err == nil {
			if b {
				out[k] = 1
			} else {
				out[k] = 0
			}
		}
	}
	*c = out
	return nil
}

// UnmarshalJSON accepts both the short role keys and the long forms used
// by older lane tables (SUPPORT, JUNGLE, MIDDLE, BOTTOM, UTILITY).
func (lp *LaneProbabilities) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*lp = nil
		return nil
	}

	out := make(LaneProbabilities, len(raw))
	for k, v := range raw {
		role, ok := ParseRole(k)
		if !ok || v == nil {
			continue
		}
		out[role] = *v
	}
	*lp = out
	return nil
}

// ParseRole maps a lane name in any of the common spellings to a Role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "TOP":
		return RoleTop, true
	case "JNG", "JUNGLE":
		return RoleJungle, true
	case "MID", "MIDDLE":
		return RoleMid, true
	case "BOT", "BOTTOM", "ADC":
		return RoleBot, true
	case "SUP", "SUPPORT", "UTILITY":
		return RoleSupport, true
	}
	return "", false
}
