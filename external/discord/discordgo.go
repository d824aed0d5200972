package discord

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/presencedash/internal/discord"
)

type AvatarResolver struct {
	session *discordgo.Session

	mu     sync.Mutex
	cached map[string]string
}

// NewAvatarResolver returns a resolver that falls back to a REST user lookup
// when token is set. Without a token only presence hashes and the default
// avatar are used.
func NewAvatarResolver(token string) (discordpkg.AvatarResolver, error) {
	r := &AvatarResolver{cached: make(map[string]string)}
	if token == "" {
		return r, nil
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	r.session = s
	return r, nil
}

func (r *AvatarResolver) AvatarURL(ctx context.Context, userID, avatarHash string) string {
	if avatarHash != "" {
		return userAvatarURL(userID, avatarHash)
	}
	if r.session == nil {
		return userAvatarURL(userID, "")
	}

	r.mu.Lock()
	hash, ok := r.cached[userID]
	r.mu.Unlock()
	if ok {
		return userAvatarURL(userID, hash)
	}

	u, err := r.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		slog.Warn("failed to look up discord user avatar", "error", err, "user_id", userID)
		return userAvatarURL(userID, "")
	}
	r.mu.Lock()
	r.cached[userID] = u.Avatar
	r.mu.Unlock()
	return u.AvatarURL(discordpkg.AvatarSize)
}

func userAvatarURL(userID, avatarHash string) string {
	u := &discordgo.User{ID: userID, Avatar: avatarHash, Discriminator: "0"}
	return u.AvatarURL(discordpkg.AvatarSize)
}
