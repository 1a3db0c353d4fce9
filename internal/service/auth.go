package service

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/itchan-dev/chanfeed/shared/domain"
	"github.com/itchan-dev/chanfeed/shared/errors"
	"github.com/itchan-dev/chanfeed/shared/logger"
)

type AuthService interface {
	Register(data RegisterData) (domain.User, string, error)
	Login(creds domain.Credentials) (domain.User, string, error)
	Me(userId domain.UserId) (domain.User, error)
}

type RegisterData struct {
	Username  domain.Username
	FirstName string
	LastName  string
	Passcode  string
}

type Auth struct {
	storage UserStorage
	jwt     Jwt
}

type UserStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByUsername(username domain.Username) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	SetOnlineStatus(userId domain.UserId, isOnline bool) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage UserStorage, jwt Jwt) *Auth {
	return &Auth{storage, jwt}
}

var passcodeRe = regexp.MustCompile(`^\d{4}$`)

const maxNameLen = 50

// Register creates a user and returns it with a fresh token. The
// passcode is bcrypt-hashed before it touches storage.
func (a *Auth) Register(data RegisterData) (domain.User, string, error) {
	username := strings.ToLower(strings.TrimSpace(data.Username))
	firstName := strings.TrimSpace(data.FirstName)
	lastName := strings.TrimSpace(data.LastName)

	if len(username) < 3 {
		return domain.User{}, "", errors.Validation("Username must be at least 3 characters")
	}
	if len(username) > 30 {
		return domain.User{}, "", errors.Validation("Username must be at most 30 characters")
	}
	if firstName == "" || lastName == "" {
		return domain.User{}, "", errors.Validation("All fields are required")
	}
	if len(firstName) > maxNameLen || len(lastName) > maxNameLen {
		return domain.User{}, "", errors.Validation("Name is too long")
	}
	if !passcodeRe.MatchString(data.Passcode) {
		return domain.User{}, "", errors.Validation("Passcode must be 4 digits")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Passcode), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", err
	}

	user := domain.User{
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		PasscodeHash: string(hash),
		IsOnline:     true,
	}
	id, err := a.storage.SaveUser(user)
	if err != nil {
		return domain.User{}, "", err
	}

	// Re-read so timestamps and defaults come from storage.
	user, err = a.storage.UserById(id)
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	logger.Log.Info("user registered", "userId", user.Id, "username", user.Username)
	return user, token, nil
}

// Login verifies credentials and marks the user online. Unknown
// username and wrong passcode are indistinguishable to the caller.
func (a *Auth) Login(creds domain.Credentials) (domain.User, string, error) {
	username := strings.ToLower(strings.TrimSpace(creds.Username))

	user, err := a.storage.UserByUsername(username)
	if err != nil {
		return domain.User{}, "", errors.Unauthenticated("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasscodeHash), []byte(creds.Passcode)); err != nil {
		return domain.User{}, "", errors.Unauthenticated("Invalid credentials")
	}

	if err := a.storage.SetOnlineStatus(user.Id, true); err != nil {
		return domain.User{}, "", err
	}
	user.IsOnline = true

	token, err := a.jwt.NewToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (a *Auth) Me(userId domain.UserId) (domain.User, error) {
	return a.storage.UserById(userId)
}
