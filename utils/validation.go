package utils

import (
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"
)

var ErrMissingField = errors.New("missing required field")

func ValidateEmail(email string) error {
	_, err := netmail.ParseAddress(email)

	return err
}

// RequireFields trims every value in place and fails on the first empty one.
// names and values are matched by index.
func RequireFields(names []string, values ...*string) error {
	for i, v := range values {
		*v = strings.TrimSpace(*v)
		if *v == "" {
			name := "field"
			if i < len(names) {
				name = names[i]
			}
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	return nil
}
