/*
Package validate holds the advisory form checks run before anything is sent to
the backend. They never perform I/O; the backend remains the authority on acceptance.

Each checker returns an empty string when the value is acceptable and a
user-facing message otherwise.
*/
package validate

import (
	"regexp"
	"strings"
)

// PasswordSymbols is the symbol set a strong password must draw from.
const PasswordSymbols = "!@#$%^&*"

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	lattesRegex  = regexp.MustCompile(`^https?://lattes\.cnpq\.br/\d+$`)
	baseURLRegex = regexp.MustCompile(`(?i)^(https?://)?([\w-]+\.)+[\w-]{2,}(:\d+)?(/.*)?$`)
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	digitRegex   = regexp.MustCompile(`\d`)
	symbolRegex  = regexp.MustCompile(`[` + regexp.QuoteMeta(PasswordSymbols) + `]`)
)

// Password rule messages, in the order they are checked.
const (
	RuleMinLength = "At least 8 characters"
	RuleUppercase = "At least 1 uppercase letter"
	RuleSymbol    = "At least 1 special character (" + PasswordSymbols + ")"
	RuleDigit     = "At least 1 number"
)

// Name requires a non-blank full name.
func Name(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required"
	}
	return ""
}

// Login requires a non-blank username.
func Login(login string) string {
	if strings.TrimSpace(login) == "" {
		return "Username is required"
	}
	return ""
}

// PasswordRules returns every strength rule the password fails.
func PasswordRules(password string) []string {
	var failed []string
	if len(password) < 8 {
		failed = append(failed, RuleMinLength)
	}
	if !upperRegex.MatchString(password) {
		failed = append(failed, RuleUppercase)
	}
	if !symbolRegex.MatchString(password) {
		failed = append(failed, RuleSymbol)
	}
	if !digitRegex.MatchString(password) {
		failed = append(failed, RuleDigit)
	}
	return failed
}

// Password joins the failed strength rules into one message.
func Password(password string) string {
	return strings.Join(PasswordRules(password), ", ")
}

// Email checks the address shape only.
func Email(email string) string {
	if !emailRegex.MatchString(email) {
		return "Enter a valid e-mail address"
	}
	return ""
}

// Lattes accepts an empty value or a CNPq Lattes curriculum link.
func Lattes(link string) string {
	if link == "" {
		return ""
	}
	if !lattesRegex.MatchString(link) {
		return "Invalid Lattes link"
	}
	return ""
}

// BaseURL accepts host names with an optional scheme, port and path.
func BaseURL(value string) string {
	if !baseURLRegex.MatchString(strings.TrimSpace(value)) {
		return "Enter a valid URL."
	}
	return ""
}
