package discord

import "context"

// AvatarSize is the pixel size requested for the profile image.
const AvatarSize = "1024"

// AvatarResolver builds the profile image URL for the watched user. avatarHash
// comes from the latest presence and may be empty before the first event.
type AvatarResolver interface {
	AvatarURL(ctx context.Context, userID, avatarHash string) string
}
