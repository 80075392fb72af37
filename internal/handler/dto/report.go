// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"

	"github.com/adsproxy/adsproxy/internal/model"
)

// ReportRequest is the body of every report endpoint.
type ReportRequest struct {
	model.CredentialSet
	DateRange string `json:"dateRange,omitempty"`

	customerIDNumeric bool
}

// UnmarshalJSON accepts credential fields sent as JSON strings or numbers.
func (r *ReportRequest) UnmarshalJSON(data []byte) error {
	var body struct {
		CustomerID     model.CredentialValue `json:"customerId"`
		AccessToken    model.CredentialValue `json:"accessToken"`
		RefreshToken   model.CredentialValue `json:"refreshToken"`
		DeveloperToken model.CredentialValue `json:"developerToken"`
		ClientID       model.CredentialValue `json:"clientId"`
		ClientSecret   model.CredentialValue `json:"clientSecret"`
		DateRange      string                `json:"dateRange"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	*r = ReportRequest{
		CredentialSet: model.CredentialSet{
			CustomerID:     body.CustomerID.Text,
			AccessToken:    body.AccessToken.Text,
			RefreshToken:   body.RefreshToken.Text,
			DeveloperToken: body.DeveloperToken.Text,
			ClientID:       body.ClientID.Text,
			ClientSecret:   body.ClientSecret.Text,
		},
		DateRange:         body.DateRange,
		customerIDNumeric: body.CustomerID.Numeric,
	}
	return nil
}

// CustomerIDEcho returns customerId in the JSON type the caller used.
func (r *ReportRequest) CustomerIDEcho() any {
	if r.customerIDNumeric {
		return json.Number(r.CustomerID)
	}
	return r.CustomerID
}

// ReportEnvelope is the success response of a report endpoint.
// Count is derived from the records, so the two never disagree.
// CustomerID is a string, or a json.Number when the caller sent a number.
type ReportEnvelope struct {
	CustomerID any
	Field      string
	Count      int
	Records    any
}

// NewReportEnvelope wraps a normalized report for customerID.
func NewReportEnvelope(customerID any, report *model.Report) *ReportEnvelope {
	return &ReportEnvelope{
		CustomerID: customerID,
		Field:      report.Kind.PayloadField(),
		Count:      report.Len(),
		Records:    report.Payload(),
	}
}

// MarshalJSON writes success, customerId, count and the records in that
// order under the kind's field name.
func (e *ReportEnvelope) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"success":true,"customerId":`)
	if err := writeValue(&buf, e.CustomerID); err != nil {
		return nil, err
	}
	buf.WriteString(`,"count":`)
	if err := writeValue(&buf, e.Count); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeValue(&buf, e.Field); err != nil {
		return nil, err
	}
	buf.WriteByte(':')
	if err := writeValue(&buf, e.Records); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// ErrorEnvelope is the failure response of every endpoint.
type ErrorEnvelope struct {
	Success  bool              `json:"success"`
	Error    string            `json:"error"`
	Required []string          `json:"required,omitempty"`
	Missing  []string          `json:"missing,omitempty"`
	Allowed  []string          `json:"allowed,omitempty"`
	Details  []json.RawMessage `json:"details"`
}

// NewErrorEnvelope builds a failure envelope. Details encodes as [] when empty.
func NewErrorEnvelope(message string, details ...json.RawMessage) *ErrorEnvelope {
	if details == nil {
		details = []json.RawMessage{}
	}
	return &ErrorEnvelope{
		Error:   message,
		Details: details,
	}
}
