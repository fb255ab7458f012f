package telephony

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrInvalidNumber = errors.New("invalid destination number")

var e164 = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// ValidateE164 accepts numbers like +919876543210 and nothing else.
func ValidateE164(number string) error {
	if !e164.MatchString(number) {
		return fmt.Errorf("%w %q: expected E.164 format such as +919876543210", ErrInvalidNumber, number)
	}
	return nil
}
