package validator

import (
	"errors"
	"strings"
)

const (
	minOrgNameLength  = 3
	maxOrgNameLength  = 50
	minPasswordLength = 6
)

func OrgName(name string) error {
	if len(name) < minOrgNameLength || len(name) > maxOrgNameLength {
		return errors.New("organization name must be between 3 and 50 characters")
	}
	return nil
}

func Email(email string) error {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.New("invalid email format")
	}
	if !strings.Contains(parts[1], ".") {
		return errors.New("invalid email domain")
	}
	return nil
}

func Password(password string) error {
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}
