package model

import (
	"encoding/json"
	"testing"
)

func TestRawRow_UnmarshalOptionalPaths(t *testing.T) {
	t.Parallel()

	data := `{
		"campaign": {"id": "111", "name": "Brand"},
		"adGroupCriterion": {"criterionId": 42, "keyword": {"text": "shoes", "matchType": "EXACT"}},
		"metrics": {"impressions": "100", "clicks": null, "conversions": 1.5}
	}`

	var row RawRow
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if row.AdGroup != nil {
		t.Error("expected adGroup to be absent")
	}
	if row.Segments != nil {
		t.Error("expected segments to be absent")
	}
	if row.AdGroupCriterion.QualityInfo != nil {
		t.Error("expected qualityInfo to be absent")
	}
	if row.Campaign.ID != "111" {
		t.Errorf("expected campaign id 111, got %s", row.Campaign.ID)
	}
	if row.AdGroupCriterion.CriterionID != "42" {
		t.Errorf("expected numeric criterion id kept as 42, got %s", row.AdGroupCriterion.CriterionID)
	}

	m := row.Metrics
	if !m.Impressions.Present || !m.Impressions.Quoted || m.Impressions.Literal != "100" {
		t.Errorf("unexpected impressions %+v", m.Impressions)
	}
	if m.Clicks.Present {
		t.Errorf("expected null clicks to be absent, got %+v", m.Clicks)
	}
	if m.CostMicros.Present {
		t.Errorf("expected missing costMicros to be absent, got %+v", m.CostMicros)
	}
	if !m.Conversions.Present || m.Conversions.Quoted || m.Conversions.Literal != "1.5" {
		t.Errorf("unexpected conversions %+v", m.Conversions)
	}
}

func TestRawGeographicView_NullIsAbsent(t *testing.T) {
	t.Parallel()

	var view RawGeographicView
	if err := json.Unmarshal([]byte(`{"countryCriterionId": null, "locationType": "AREA_OF_INTEREST"}`), &view); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if view.CountryCriterionID != nil {
		t.Errorf("expected nil country criterion, got %q", *view.CountryCriterionID)
	}
	if view.LocationType == nil || *view.LocationType != "AREA_OF_INTEREST" {
		t.Errorf("unexpected location type %v", view.LocationType)
	}
}
