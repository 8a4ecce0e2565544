package dto

type TrialCheckoutResponse struct {
	URL string `json:"url"`
}
