package authsvc

import (
	"bytes"
	"encoding/json"

	"github.com/dgrijalva/jwt-go"
)

// audience decodes the "aud" claim, which may be a single string or an array.
type audience []string

func (a *audience) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = audience{s}
		return nil
	}
	var auds []string
	if err := json.Unmarshal(data, &auds); err != nil {
		return err
	}
	*a = auds
	return nil
}

func (a audience) contains(aud string) bool {
	for _, v := range a {
		if v == aud {
			return true
		}
	}
	return false
}

// Claims are the JWT claims issued by the identity provider.
// Permissions is nil when the claim is absent, which is not the same as an empty list.
type Claims struct {
	Issuer      string    `json:"iss,omitempty"`
	Subject     string    `json:"sub,omitempty"`
	Audience    audience  `json:"aud,omitempty"`
	ExpiresAt   int64     `json:"exp,omitempty"`
	NotBefore   int64     `json:"nbf,omitempty"`
	IssuedAt    int64     `json:"iat,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
}

var _ jwt.Claims = (*Claims)(nil) // interface compliance check

// Valid checks the time based claims. Issuer and audience are checked by the gate.
func (c Claims) Valid() error {
	now := jwt.TimeFunc().Unix()
	if c.ExpiresAt != 0 && now > c.ExpiresAt {
		return jwt.NewValidationError("token is expired", jwt.ValidationErrorExpired)
	}
	if c.NotBefore != 0 && now < c.NotBefore {
		return jwt.NewValidationError("token is not valid yet", jwt.ValidationErrorNotValidYet)
	}
	return nil
}
