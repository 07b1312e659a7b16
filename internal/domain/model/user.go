package model

// User is the GitHub account that authored a pull request or review comment.
type User struct {
	Login     string
	ID        int64
	Type      string // "User", "Bot", or "Organization" as reported by GitHub.
	AvatarURL string
}
