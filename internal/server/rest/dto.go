package rest

import (
	"strings"

	"github.com/dmitrijs2005/piiquante/internal/server/models"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// sauceRequest is the editable part of a sauce as the client sends it. Any
// owner or vote fields in the payload are ignored.
type sauceRequest struct {
	Name         string `json:"name" validate:"required,notblank,max=100"`
	Manufacturer string `json:"manufacturer" validate:"required,notblank,max=100"`
	Description  string `json:"description" validate:"required,notblank,max=2000"`
	MainPepper   string `json:"mainPepper" validate:"required,notblank,max=100"`
	Heat         int    `json:"heat" validate:"min=1,max=10"`
}

func (r sauceRequest) details() models.SauceDetails {
	return models.SauceDetails{
		Name:         strings.TrimSpace(r.Name),
		Manufacturer: strings.TrimSpace(r.Manufacturer),
		Description:  strings.TrimSpace(r.Description),
		MainPepper:   strings.TrimSpace(r.MainPepper),
		Heat:         r.Heat,
	}
}

type sauceResponse struct {
	Message string        `json:"message"`
	Sauce   *models.Sauce `json:"sauce"`
}

// Like is a pointer so that a missing field is rejected instead of being
// read as a withdrawal.
type voteRequest struct {
	Like *int `json:"like" validate:"required,oneof=-1 0 1"`
}
