package dto

import "strings"

// RegisterRequest matches the registration form of the web client.
type RegisterRequest struct {
	FirstName   string `json:"firstName" validate:"max=100"`
	LastName    string `json:"lastName" validate:"max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Location    string `json:"location" validate:"max=200"`
	PhoneNumber string `json:"phoneNumber" validate:"max=32"`
	FarmName    string `json:"farmName" validate:"max=200"`
	FarmSize    string `json:"farmSize" validate:"max=64"`
	FarmType    string `json:"farmType" validate:"max=100"`
	Password    string `json:"password" validate:"required,max=72"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}
