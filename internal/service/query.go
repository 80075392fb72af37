package service

import (
	"fmt"
	"strings"

	"github.com/adsproxy/adsproxy/internal/model"
)

// reportQuery is the fixed projection and filter set of one report kind.
type reportQuery struct {
	resource string
	fields   []string
	filters  []string
}

var reportQueries = map[model.ReportKind]reportQuery{
	model.ReportKeywords: {
		resource: "keyword_view",
		fields: []string{
			"ad_group_criterion.criterion_id",
			"ad_group_criterion.keyword.text",
			"ad_group_criterion.keyword.match_type",
			"ad_group_criterion.status",
			"ad_group_criterion.effective_cpc_bid_micros",
			"ad_group_criterion.quality_info.quality_score",
			"campaign.id",
			"campaign.name",
			"ad_group.id",
			"ad_group.name",
			"segments.date",
			"metrics.impressions",
			"metrics.clicks",
			"metrics.cost_micros",
			"metrics.conversions",
			"metrics.conversions_value",
		},
		filters: []string{
			"ad_group_criterion.type = KEYWORD",
			"campaign.status = ENABLED",
			"ad_group.status = ENABLED",
		},
	},
	model.ReportDemographics: {
		resource: "age_range_view",
		fields: []string{
			"campaign.id",
			"campaign.name",
			"ad_group.id",
			"ad_group.name",
			"ad_group_criterion.age_range.type",
			"ad_group_criterion.gender.type",
			"segments.date",
			"metrics.impressions",
			"metrics.clicks",
			"metrics.cost_micros",
			"metrics.conversions",
		},
		filters: []string{
			"campaign.status = ENABLED",
		},
	},
	model.ReportGeographic: {
		resource: "geographic_view",
		fields: []string{
			"campaign.id",
			"campaign.name",
			"geographic_view.country_criterion_id",
			"geographic_view.location_type",
			"segments.date",
			"metrics.impressions",
			"metrics.clicks",
			"metrics.cost_micros",
			"metrics.conversions",
		},
		filters: []string{
			"campaign.status = ENABLED",
		},
	},
}

// BuildQuery renders the GAQL query for a report kind over a date range.
// The date range is checked against the closed token set before it is
// written into the DURING clause.
func BuildQuery(kind model.ReportKind, dateRange model.DateRange) (string, error) {
	q, ok := reportQueries[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownReportKind, kind)
	}
	if !dateRange.IsValid() {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidDateRange, dateRange)
	}

	var b strings.Builder
	b.WriteString("SELECT\n  ")
	b.WriteString(strings.Join(q.fields, ",\n  "))
	b.WriteString("\nFROM ")
	b.WriteString(q.resource)
	b.WriteString("\nWHERE segments.date DURING ")
	b.WriteString(string(dateRange))
	for _, f := range q.filters {
		b.WriteString("\n  AND ")
		b.WriteString(f)
	}

	return b.String(), nil
}
