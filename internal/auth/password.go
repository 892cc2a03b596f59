// password.go implements bcrypt password hashing and the registration password
// policy. Policy checks run in a fixed order and stop at the first failing
// rule, so a violating password reports exactly one message.
package auth

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 12

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// PolicyError reports the first password rule a candidate password violates.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string { return e.Message }

// passwordRule pairs a compiled check with its user-facing message.
type passwordRule struct {
	ok      func(string) bool
	message string
}

var passwordRules = []passwordRule{
	{func(s string) bool { return len(s) >= MinPasswordLength }, "Password must be at least 8 characters long."},
	{upperRe.MatchString, "Password must contain at least one uppercase letter."},
	{lowerRe.MatchString, "Password must contain at least one lowercase letter."},
	{digitRe.MatchString, "Password must contain at least one digit."},
	{specialRe.MatchString, "Password must contain at least one special character."},
}

// CheckPasswordPolicy validates a candidate password against the registration
// policy. It returns a *PolicyError describing the FIRST violated rule, or nil
// when every rule passes. Rules are evaluated in order: length, uppercase,
// lowercase, digit, special character.
func CheckPasswordPolicy(password string) error {
	for _, rule := range passwordRules {
		if !rule.ok(password) {
			return &PolicyError{Message: rule.message}
		}
	}
	return nil
}

// HashPassword hashes a plaintext password with bcrypt for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
func VerifyPassword(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
