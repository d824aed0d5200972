package presence

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedPresence = errors.New("malformed presence payload")

var jsonNull = json.RawMessage("null")

// DecodeSnapshot builds a Snapshot from an upstream presence object.
//
// The user id and status must be present. A music block without usable
// timestamps is dropped rather than rejected.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedPresence, err)
	}
	if raw == nil {
		return Snapshot{}, fmt.Errorf("%w: payload is null", ErrMalformedPresence)
	}

	var p Presence
	if err := json.Unmarshal(data, &p); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedPresence, err)
	}
	if p.DiscordUser.ID == "" {
		return Snapshot{}, fmt.Errorf("%w: discord_user.id is missing", ErrMalformedPresence)
	}
	if p.DiscordStatus == "" {
		return Snapshot{}, fmt.Errorf("%w: discord_status is missing", ErrMalformedPresence)
	}

	if p.Spotify != nil && !hasPlaybackWindow(p.Spotify.Timestamps) {
		p.Spotify = nil
		p.ListeningToSpotify = false
		raw["spotify"] = jsonNull
		raw["listening_to_spotify"] = json.RawMessage("false")
	}

	return Snapshot{
		Presence:   &p,
		StatusData: DeriveStatus(p.DiscordStatus),
		raw:        raw,
	}, nil
}

func hasPlaybackWindow(ts *Timestamps) bool {
	return ts != nil && ts.Start > 0 && ts.End > ts.Start
}
