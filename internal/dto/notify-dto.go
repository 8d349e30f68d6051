package dto

type WelcomeEmailRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type NotifyResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
}
