package model

import (
	"bytes"
	"encoding/json"
)

// Text is an upstream scalar copied through to the output.
// The REST API encodes 64-bit identifiers as JSON strings, but numbers are
// accepted too and kept as their literal text. null leaves Text empty.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

// String returns the text value.
func (t Text) String() string {
	return string(t)
}

// Number is an upstream metric value kept in raw form until normalization.
// Present is false when the field was absent or null.
type Number struct {
	Literal string
	Quoted  bool
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number{Literal: s, Quoted: true, Present: true}
		return nil
	}
	*n = Number{Literal: string(data), Present: true}
	return nil
}

// RawRow is one row of a googleAds:searchStream response.
// Every nested object is optional; nil means the path was absent.
type RawRow struct {
	Campaign         *RawCampaign         `json:"campaign,omitempty"`
	AdGroup          *RawAdGroup          `json:"adGroup,omitempty"`
	AdGroupCriterion *RawAdGroupCriterion `json:"adGroupCriterion,omitempty"`
	GeographicView   *RawGeographicView   `json:"geographicView,omitempty"`
	Segments         *RawSegments         `json:"segments,omitempty"`
	Metrics          *RawMetrics          `json:"metrics,omitempty"`
}

// RawCampaign is the campaign sub-object.
type RawCampaign struct {
	ID   Text `json:"id"`
	Name Text `json:"name"`
}

// RawAdGroup is the ad_group sub-object.
type RawAdGroup struct {
	ID   Text `json:"id"`
	Name Text `json:"name"`
}

// RawAdGroupCriterion is the ad_group_criterion sub-object.
type RawAdGroupCriterion struct {
	CriterionID           Text            `json:"criterionId"`
	Status                Text            `json:"status"`
	EffectiveCpcBidMicros Text            `json:"effectiveCpcBidMicros"`
	Keyword               *RawKeyword     `json:"keyword,omitempty"`
	QualityInfo           *RawQualityInfo `json:"qualityInfo,omitempty"`
	AgeRange              *RawTypeInfo    `json:"ageRange,omitempty"`
	Gender                *RawTypeInfo    `json:"gender,omitempty"`
}

// RawKeyword holds keyword text and match type.
type RawKeyword struct {
	Text      Text `json:"text"`
	MatchType Text `json:"matchType"`
}

// RawQualityInfo holds the keyword quality score.
type RawQualityInfo struct {
	QualityScore Number `json:"qualityScore"`
}

// RawTypeInfo is the {type: ...} shape used by age range and gender criteria.
type RawTypeInfo struct {
	Type Text `json:"type"`
}

// RawGeographicView is the geographic_view sub-object.
type RawGeographicView struct {
	CountryCriterionID *Text `json:"countryCriterionId,omitempty"`
	LocationType       *Text `json:"locationType,omitempty"`
}

// RawSegments is the segments sub-object.
type RawSegments struct {
	Date Text `json:"date"`
}

// RawMetrics is the metrics sub-object.
type RawMetrics struct {
	Impressions      Number `json:"impressions"`
	Clicks           Number `json:"clicks"`
	CostMicros       Number `json:"costMicros"`
	Conversions      Number `json:"conversions"`
	ConversionsValue Number `json:"conversionsValue"`
}
