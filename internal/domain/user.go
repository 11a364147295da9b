package domain

import "time"

// User is an identity record. Normalized fields hold the lower-cased lookup keys.
type User struct {
	ID                 string
	UserName           string
	NormalizedUserName string
	Email              string
	NormalizedEmail    string
	PasswordHash       string
	PhoneNumber        string
	EmailConfirmed     bool
	TwoFactorEnabled   bool
	CreatedAt          time.Time
}
