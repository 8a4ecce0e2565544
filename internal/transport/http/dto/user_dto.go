package dto

type CreateDummyUserRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	CustomID string `json:"customId"`
}

type CreateDummyUserResponse struct {
	Email      string `json:"email"`
	DocumentID string `json:"documentId"`
	ExpiresAt  int64  `json:"expiresAt"`
	IsTrial    bool   `json:"isTrial"`
}
