package dto

type ConfirmationResponse struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	DocumentID string `json:"documentId"`
}
