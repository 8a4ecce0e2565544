package dto

type WebhookAckResponse struct {
	Received bool `json:"received"`
}
