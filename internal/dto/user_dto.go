package dto

type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PhoneAuthRequest struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name,omitempty"`
}

type PhoneVerificationRequest struct {
	PhoneNumberVerificationCode string `json:"phone_number_verification_code"`
}

// UpdateUserRequest uses pointers so handlers can distinguish "field
// absent" from "field cleared".
type UpdateUserRequest struct {
	Name      *string `json:"name"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	AvatarURL *string `json:"avatar_url"`
}

type PhoneSearchRequest struct {
	PhoneNumbers []string `json:"phone_numbers"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
