// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq is the body of POST /signup.
type SignupReq struct {
	Username string `json:"username" binding:"required,min=3,max=64,username"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// SignupRes is returned on successful signup.
type SignupRes struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}
