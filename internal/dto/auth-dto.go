package dto

type SendCodeRequest struct {
	Email string `json:"email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

type AuthResponse struct {
	AccountID string  `json:"account_id"`
	Email     string  `json:"email"`
	Iat       float64 `json:"iat"`
	Expiry    float64 `json:"expiry"`
}
