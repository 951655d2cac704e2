package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidSessionType = errors.New("invalid session type")
	ErrInvalidMessageType = errors.New("invalid message type")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || len(trimmed) > 100 {
		return ErrInvalidName
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateSessionType(sessionType string) error {
	if sessionType != "online" && sessionType != "in-person" {
		return ErrInvalidSessionType
	}
	return nil
}

func ValidateMessageType(messageType string) error {
	if messageType != "text" && messageType != "image" {
		return ErrInvalidMessageType
	}
	return nil
}
