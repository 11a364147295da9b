package dto

// RegisterRequest payload for POST /security/Register. Field rules are applied by
// the auth service so every failure is reported together.
type RegisterRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PhoneNo  string `json:"phoneNo"`
}

// LoginRequest payload for POST /security/Login.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}
