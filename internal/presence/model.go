package presence

import (
	"encoding/json"

	"github.com/bwmarrin/discordgo"
)

type StatusData struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

type DiscordUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
}

type Timestamps struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

type Activity struct {
	Name       string                 `json:"name"`
	Type       discordgo.ActivityType `json:"type"`
	State      string                 `json:"state"`
	Details    string                 `json:"details"`
	Timestamps *Timestamps            `json:"timestamps"`
}

type Spotify struct {
	TrackID     string      `json:"track_id"`
	Song        string      `json:"song"`
	Artist      string      `json:"artist"`
	Album       string      `json:"album"`
	AlbumArtURL string      `json:"album_art_url"`
	Timestamps  *Timestamps `json:"timestamps"`
}

// Presence is the typed view of an upstream presence object. Only the fields
// the server reads are decoded; the browser receives the raw object.
type Presence struct {
	DiscordUser        DiscordUser      `json:"discord_user"`
	DiscordStatus      discordgo.Status `json:"discord_status"`
	Activities         []Activity       `json:"activities"`
	ListeningToSpotify bool             `json:"listening_to_spotify"`
	Spotify            *Spotify         `json:"spotify"`
}

// Snapshot is the most recent normalized presence. The zero value is the
// empty snapshot held before the first upstream event.
//
// A Snapshot is immutable once built by DecodeSnapshot; copies share the raw
// field map.
type Snapshot struct {
	Presence   *Presence
	StatusData StatusData
	raw        map[string]json.RawMessage
}

func (s Snapshot) IsZero() bool {
	return s.Presence == nil
}

// Status returns the derived status, or false before the first event.
func (s Snapshot) Status() (StatusData, bool) {
	if s.IsZero() {
		return StatusData{}, false
	}
	return s.StatusData, true
}

func (s Snapshot) AvatarHash() string {
	if s.IsZero() {
		return ""
	}
	return s.Presence.DiscordUser.Avatar
}

// MarshalJSON emits the upstream object merged with statusData, or {} for
// the empty snapshot.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("{}"), nil
	}
	out := make(map[string]json.RawMessage, len(s.raw)+1)
	for k, v := range s.raw {
		out[k] = v
	}
	statusData, err := json.Marshal(s.StatusData)
	if err != nil {
		return nil, err
	}
	out["statusData"] = statusData
	return json.Marshal(out)
}
