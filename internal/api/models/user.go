package models

// ProfileModel is a user's account profile.
type ProfileModel struct {
	ID                string                  `json:"id"`
	Username          string                  `json:"username"`
	Phone             string                  `json:"phone,omitempty"`
	EmergencyContacts []EmergencyContactModel `json:"emergencyContacts"`
	CreatedAt         Timestamp               `json:"createdAt"`
	UpdatedAt         Timestamp               `json:"updatedAt"`
}

// EmergencyContactModel is one emergency contact on a profile.
type EmergencyContactModel struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpdatePhoneRequest changes the user's own phone number.
type UpdatePhoneRequest struct {
	Phone string `json:"phone"`
}

// AddContactRequest appends an emergency contact to the profile.
type AddContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest exchanges a refresh token for new tokens.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
