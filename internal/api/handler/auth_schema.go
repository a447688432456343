package handler

// Request schemas for the auth routes. Length limits mirror the stored
// schema: email up to 100, name 2-100, password 6-50.

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email,max=100"`
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=6,max=50"`
	// Role accepts student or teacher only; admin accounts cannot be
	// created through registration.
	Role string `json:"role" validate:"omitempty,oneof=student teacher"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2,max=100"`
	Email *string `json:"email" validate:"omitempty,email,max=100"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,max=50,nefield=CurrentPassword"`
}
