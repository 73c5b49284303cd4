package domain

import "time"

// Profile is the 1:1 companion row for a user. It is created automatically
// when the user account is created and starts out pointing at the shared
// placeholder avatar.
type Profile struct {
	UserID    string
	ImagePath string
	CreatedAt time.Time
}
