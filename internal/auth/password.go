package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// PasswordPolicy lists the character classes a new password must contain.
type PasswordPolicy struct {
	MinLength          int
	RequireDigit       bool
	RequireLowercase   bool
	RequireUppercase   bool
	RequireNonAlphanum bool
}

// DefaultPasswordPolicy is applied at registration.
var DefaultPasswordPolicy = PasswordPolicy{
	MinLength:          6,
	RequireDigit:       true,
	RequireLowercase:   true,
	RequireUppercase:   true,
	RequireNonAlphanum: true,
}

// Validate returns one message per violated rule, or nil.
func (p PasswordPolicy) Validate(password string) []string {
	var hasDigit, hasLower, hasUpper, hasOther bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case !unicode.IsLetter(r):
			hasOther = true
		}
	}

	var problems []string
	if len([]rune(password)) < p.MinLength {
		problems = append(problems, fmt.Sprintf("Password must be at least %d characters long.", p.MinLength))
	}
	if len(password) > maxPasswordBytes {
		problems = append(problems, "Password must be at most 72 bytes long.")
	}
	if p.RequireNonAlphanum && !hasOther {
		problems = append(problems, "Password must contain at least one non-alphanumeric character.")
	}
	if p.RequireDigit && !hasDigit {
		problems = append(problems, "Password must contain at least one digit.")
	}
	if p.RequireLowercase && !hasLower {
		problems = append(problems, "Password must contain at least one lowercase letter.")
	}
	if p.RequireUppercase && !hasUpper {
		problems = append(problems, "Password must contain at least one uppercase letter.")
	}
	return problems
}
