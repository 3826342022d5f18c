package validation

import (
	"fmt"
	"strings"
	"unicode"
)

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// CheckPasswordComplexity enforces the account password policy: at least 8
// characters with one uppercase letter, one lowercase letter, one digit and
// one symbol from the fixed punctuation set.
func CheckPasswordComplexity(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !hasLower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !hasDigit:
		return fmt.Errorf("password must contain at least one number")
	case !hasSymbol:
		return fmt.Errorf("password must contain at least one special character")
	}
	return nil
}
