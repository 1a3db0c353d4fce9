package domain

import "time"

type User struct {
	Id           UserId    `json:"id"`
	Username     Username  `json:"username"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasscodeHash string    `json:"-"`
	AvatarUrl    *string   `json:"avatarUrl,omitempty"`
	IsOnline     bool      `json:"isOnline"`
	LastSeen     time.Time `json:"lastSeen"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Credentials is the register/login input before hashing.
type Credentials struct {
	Username Username
	Passcode string
}
