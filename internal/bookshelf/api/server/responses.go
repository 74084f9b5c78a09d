package server

type LoginResponse struct {
	Token string `json:"token"`
}
