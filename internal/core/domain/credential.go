package domain

import (
	"bytes"
	"encoding/json"
)

// Credential is the opaque upstream session captured at login and attached
// to every credentialed call.
type Credential struct {
	Cookies []CredentialCookie `json:"cookies"`
}

type CredentialCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}
	out := &Credential{Cookies: make([]CredentialCookie, len(c.Cookies))}
	copy(out.Cookies, c.Cookies)
	return out
}

// IsTruthyJSON reports whether body decodes to a JavaScript-truthy value.
// Empty bodies and invalid JSON are falsy.
func IsTruthyJSON(body []byte) bool {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return false
	}
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}
