package dto

// LoginReq is the body of POST /login.
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenRes carries the issued bearer token.
type TokenRes struct {
	Token string `json:"token"`
}

// ErrorRes is the error body for every auth endpoint.
type ErrorRes struct {
	Error string `json:"error"`
}
