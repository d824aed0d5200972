package presence

import (
	"unicode"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

const (
	colorGreen  = "green"
	colorYellow = "yellow"
	colorRed    = "red"
	colorGray   = "gray"
)

// DeriveStatus maps an upstream status to its display color and label.
// Unrecognized values render gray with the first letter capitalized.
func DeriveStatus(status discordgo.Status) StatusData {
	switch status {
	case discordgo.StatusOnline:
		return StatusData{Color: colorGreen, Label: "Online"}
	case discordgo.StatusIdle:
		return StatusData{Color: colorYellow, Label: "Idle"}
	case discordgo.StatusDoNotDisturb:
		return StatusData{Color: colorRed, Label: "Do Not Disturb"}
	case discordgo.StatusOffline:
		return StatusData{Color: colorGray, Label: "Offline"}
	default:
		return StatusData{Color: colorGray, Label: capitalize(string(status))}
	}
}

// UnknownStatus is what the page shows before any presence event arrives.
func UnknownStatus() StatusData {
	return StatusData{Color: colorGray, Label: "Unknown"}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
