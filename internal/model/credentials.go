package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// Credential field names as they appear in request bodies.
const (
	FieldCustomerID     = "customerId"
	FieldRefreshToken   = "refreshToken"
	FieldDeveloperToken = "developerToken"
	FieldClientID       = "clientId"
	FieldClientSecret   = "clientSecret"
)

// RequiredCredentialFields lists the fields every report request must carry.
// accessToken is accepted but never required.
var RequiredCredentialFields = []string{
	FieldCustomerID,
	FieldRefreshToken,
	FieldDeveloperToken,
	FieldClientID,
	FieldClientSecret,
}

// CredentialSet holds the per-request Google Ads credentials.
// Values are used for a single upstream call and must never be logged or stored.
type CredentialSet struct {
	CustomerID     string `json:"customerId"`
	AccessToken    string `json:"accessToken,omitempty"`
	RefreshToken   string `json:"refreshToken"`
	DeveloperToken string `json:"developerToken"`
	ClientID       string `json:"clientId"`
	ClientSecret   string `json:"clientSecret"`
}

// CredentialValue is one credential field as the caller sent it. Strings are
// taken as-is and numbers keep their literal text. null and a zero number
// leave it empty, so the field counts as missing.
type CredentialValue struct {
	Text    string
	Numeric bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *CredentialValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = CredentialValue{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = CredentialValue{Text: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("credential must be a string or number: %w", err)
	}
	if f, err := n.Float64(); err == nil && f == 0 {
		*v = CredentialValue{}
		return nil
	}
	*v = CredentialValue{Text: n.String(), Numeric: true}
	return nil
}

// ValidationError reports missing credential fields.
// Required always holds the full required set; Missing holds the absent subset.
type ValidationError struct {
	Required []string
	Missing  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Validate checks that every required credential field is non-empty.
func (c CredentialSet) Validate() error {
	values := map[string]string{
		FieldCustomerID:     c.CustomerID,
		FieldRefreshToken:   c.RefreshToken,
		FieldDeveloperToken: c.DeveloperToken,
		FieldClientID:       c.ClientID,
		FieldClientSecret:   c.ClientSecret,
	}

	var missing []string
	for _, field := range RequiredCredentialFields {
		if values[field] == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return &ValidationError{
		Required: append([]string(nil), RequiredCredentialFields...),
		Missing:  missing,
	}
}

// String redacts every secret so a CredentialSet is safe to print by accident.
func (c CredentialSet) String() string {
	return "CredentialSet{redacted}"
}

// LogValue keeps credentials out of structured logs.
func (c CredentialSet) LogValue() slog.Value {
	return slog.StringValue("[redacted]")
}
