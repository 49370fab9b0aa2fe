package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Identity is the immutable identity of a user: a numeric fid, a handle,
// a display name, and an avatar reference. Identities are compared solely
// by FID.
// swagger:model Identity
type Identity struct {
	FID         int64  `json:"fid" bson:"fid" validate:"required,gte=1"`
	Username    string `json:"username" bson:"username" validate:"required"`
	DisplayName string `json:"displayName" bson:"displayName" validate:"required"`
	PfpURL      string `json:"pfpUrl" bson:"pfpUrl" validate:"required"`
}

// Normalize trims surrounding whitespace from the string fields. Loosely
// shaped inbound identities are normalized exactly once, at the boundary;
// downstream code assumes a normalized value.
func (i *Identity) Normalize() {
	i.Username = strings.TrimSpace(i.Username)
	i.DisplayName = strings.TrimSpace(i.DisplayName)
	i.PfpURL = strings.TrimSpace(i.PfpURL)
}

// ValidateIdentity checks an identity against the schema and returns one
// message per offending field; nil means valid. PfpURL is only required to
// be non-empty: URL validation is best-effort and any non-empty string is
// accepted.
func ValidateIdentity(i Identity) []string {
	err := validate.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.StructField() {
		case "FID":
			msgs = append(msgs, "fid must be a number greater than or equal to 1")
		case "Username":
			msgs = append(msgs, "username is required")
		case "DisplayName":
			msgs = append(msgs, "displayName is required")
		case "PfpURL":
			msgs = append(msgs, "pfpUrl is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return msgs
}
