package model

import (
	"errors"
	"strings"
	"time"
)

// ReportKind selects the query, the record shape and the payload field name.
type ReportKind string

const (
	ReportKeywords     ReportKind = "keywords"
	ReportDemographics ReportKind = "demographics"
	ReportGeographic   ReportKind = "geographic"
)

// ReportKinds lists every supported kind.
var ReportKinds = []ReportKind{ReportKeywords, ReportDemographics, ReportGeographic}

// IsValid reports whether k is a supported kind.
func (k ReportKind) IsValid() bool {
	switch k {
	case ReportKeywords, ReportDemographics, ReportGeographic:
		return true
	}
	return false
}

// PayloadField is the envelope key holding the records for this kind.
func (k ReportKind) PayloadField() string {
	return string(k)
}

// DefaultDateRange is used when a request omits dateRange.
func (k ReportKind) DefaultDateRange() DateRange {
	if k == ReportKeywords {
		return Last7Days
	}
	return Last30Days
}

// DateRange is a GAQL predefined date range literal.
type DateRange string

const (
	Today            DateRange = "TODAY"
	Yesterday        DateRange = "YESTERDAY"
	Last7Days        DateRange = "LAST_7_DAYS"
	Last14Days       DateRange = "LAST_14_DAYS"
	Last30Days       DateRange = "LAST_30_DAYS"
	LastBusinessWeek DateRange = "LAST_BUSINESS_WEEK"
	ThisMonth        DateRange = "THIS_MONTH"
	LastMonth        DateRange = "LAST_MONTH"
	ThisWeekSunToday DateRange = "THIS_WEEK_SUN_TODAY"
	ThisWeekMonToday DateRange = "THIS_WEEK_MON_TODAY"
	LastWeekSunSat   DateRange = "LAST_WEEK_SUN_SAT"
	LastWeekMonSun   DateRange = "LAST_WEEK_MON_SUN"
)

// DateRanges is the closed set of tokens accepted in a WHERE ... DURING clause.
var DateRanges = []DateRange{
	Today,
	Yesterday,
	Last7Days,
	Last14Days,
	Last30Days,
	LastBusinessWeek,
	ThisMonth,
	LastMonth,
	ThisWeekSunToday,
	ThisWeekMonToday,
	LastWeekSunSat,
	LastWeekMonSun,
}

// ErrInvalidDateRange is returned for tokens outside DateRanges.
var ErrInvalidDateRange = errors.New("invalid date range")

// IsValid reports whether d belongs to the closed token set.
func (d DateRange) IsValid() bool {
	for _, allowed := range DateRanges {
		if d == allowed {
			return true
		}
	}
	return false
}

// ResolveDateRange applies the per-kind default to an empty token and
// rejects anything outside the closed set. Tokens are matched exactly.
func ResolveDateRange(kind ReportKind, raw string) (DateRange, error) {
	if strings.TrimSpace(raw) == "" {
		return kind.DefaultDateRange(), nil
	}

	d := DateRange(raw)
	if !d.IsValid() {
		return "", ErrInvalidDateRange
	}
	return d, nil
}

// DateRangeNames returns the accepted tokens as strings.
func DateRangeNames() []string {
	names := make([]string, len(DateRanges))
	for i, d := range DateRanges {
		names[i] = string(d)
	}
	return names
}

// ReportRequest is a validated report invocation.
type ReportRequest struct {
	Kind        ReportKind
	Credentials CredentialSet
	DateRange   DateRange
	RequestID   string
}

// Report holds the normalized records for one kind.
// Exactly one of the record slices is populated, selected by Kind.
type Report struct {
	Kind         ReportKind
	Keywords     []KeywordRecord
	Demographics []DemographicRecord
	Geographic   []GeographicRecord
}

// Payload returns the populated record slice, never nil.
func (r *Report) Payload() any {
	switch r.Kind {
	case ReportKeywords:
		if r.Keywords == nil {
			return []KeywordRecord{}
		}
		return r.Keywords
	case ReportDemographics:
		if r.Demographics == nil {
			return []DemographicRecord{}
		}
		return r.Demographics
	case ReportGeographic:
		if r.Geographic == nil {
			return []GeographicRecord{}
		}
		return r.Geographic
	}
	return []any{}
}

// Len returns the number of records in the populated slice.
func (r *Report) Len() int {
	switch r.Kind {
	case ReportKeywords:
		return len(r.Keywords)
	case ReportDemographics:
		return len(r.Demographics)
	case ReportGeographic:
		return len(r.Geographic)
	}
	return 0
}

// RunStatus is the outcome recorded for a report run.
type RunStatus string

const (
	RunSucceeded RunStatus = "success"
	RunFailed    RunStatus = "failed"
)

// ReportRun is the audit record of one report invocation.
// It carries a digest of the customer ID and no credential values.
type ReportRun struct {
	ID           string
	Kind         ReportKind
	CustomerHash string
	DateRange    DateRange
	Status       RunStatus
	RowCount     int
	ErrorMessage string
	Duration     time.Duration
	RequestID    string
	CreatedAt    time.Time
}
