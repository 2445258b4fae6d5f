package domain

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	Avatar       string    `json:"avatar"`
	SavedPosts   []string  `json:"savedPosts"`
	Followers    []string  `json:"followers"`
	Following    []string  `json:"following"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the public projection embedded in posts and comments.
type UserSummary struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Avatar    string   `json:"avatar"`
	Followers []string `json:"followers,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Avatar:    u.Avatar,
		Followers: u.Followers,
	}
}

// ProfileUpdate carries optional profile fields; nil means unchanged.
type ProfileUpdate struct {
	Username     *string
	Email        *string
	Bio          *string
	Avatar       *string
	PasswordHash *string
}
