package dto

type PingResponse struct {
	OK bool `json:"ok"`
}
