package domain

import (
	"net/mail"
	"time"
	"unicode/utf8"
)

const (
	maxUsernameLength = 150
	maxEmailLength    = 254
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	DateJoined   time.Time
}

type TokenPair struct {
	Access  string
	Refresh string
}

type RegisterRequest struct {
	Username string
	Password string
	Email    string
}

func (r RegisterRequest) Validate() error {
	verr := &ValidationError{}

	switch {
	case r.Username == "":
		verr.Add("username", MsgRequired)
	case utf8.RuneCountInString(r.Username) > maxUsernameLength:
		verr.Add("username", MaxLengthMessage(maxUsernameLength))
	case !validUsername(r.Username):
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	if r.Password == "" {
		verr.Add("password", MsgRequired)
	}

	if r.Email != "" {
		if utf8.RuneCountInString(r.Email) > maxEmailLength {
			verr.Add("email", MaxLengthMessage(maxEmailLength))
		} else if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
			verr.Add("email", "Enter a valid email address.")
		}
	}

	return verr.OrNil()
}

func validUsername(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '@' || r == '.' || r == '+' || r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
