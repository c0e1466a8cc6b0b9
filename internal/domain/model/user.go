package model

import "github.com/google/uuid"

// User is the identity referenced by every ownership field.
type User struct {
	ID        uuid.UUID
	Username  string
	FullName  string
	AvatarURL string
}

// OwnerSnippet is the public subset of a User embedded in composed views.
type OwnerSnippet struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl"`
}

// Snippet returns the public projection of the user.
func (u *User) Snippet() OwnerSnippet {
	return OwnerSnippet{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

// SubscriptionStats describes a channel's audience as seen by one viewer.
type SubscriptionStats struct {
	SubscribersCount int64
	IsSubscribed     bool
}
