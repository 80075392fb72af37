package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/adsproxy/adsproxy/internal/model"
)

// unknownSegment replaces an absent age range or gender.
const unknownSegment model.Text = "UNKNOWN"

var (
	intPrefix   = regexp.MustCompile(`^[+-]?[0-9]+`)
	floatPrefix = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?`)
)

// NormalizeKeyword maps a keyword_view row to a KeywordRecord.
func NormalizeKeyword(row model.RawRow) model.KeywordRecord {
	rec := model.KeywordRecord{
		CampaignID:   campaignID(row),
		CampaignName: campaignName(row),
		AdGroupID:    adGroupID(row),
		AdGroupName:  adGroupName(row),
		Date:         segmentDate(row),
		Metrics: model.KeywordMetrics{
			Metrics: coerceMetrics(row.Metrics),
		},
	}

	if c := row.AdGroupCriterion; c != nil {
		rec.CriterionID = c.CriterionID
		rec.Status = c.Status
		rec.MaxCpcMicros = c.EffectiveCpcBidMicros
		if c.Keyword != nil {
			rec.KeywordText = c.Keyword.Text
			rec.MatchType = c.Keyword.MatchType
		}
		if c.QualityInfo != nil {
			// Zero is not a real score; it reports as null like an absent one.
			if score := CoerceInt(c.QualityInfo.QualityScore); score != 0 {
				rec.QualityScore = &score
			}
		}
	}

	if row.Metrics != nil {
		rec.Metrics.ConversionsValue = CoerceFloat(row.Metrics.ConversionsValue)
	}

	return rec
}

// NormalizeDemographic maps an age_range_view row to a DemographicRecord.
func NormalizeDemographic(row model.RawRow) model.DemographicRecord {
	rec := model.DemographicRecord{
		CampaignID:   campaignID(row),
		CampaignName: campaignName(row),
		AdGroupID:    adGroupID(row),
		AdGroupName:  adGroupName(row),
		AgeRange:     unknownSegment,
		Gender:       unknownSegment,
		Date:         segmentDate(row),
		Metrics:      coerceMetrics(row.Metrics),
	}

	if c := row.AdGroupCriterion; c != nil {
		if c.AgeRange != nil && c.AgeRange.Type != "" {
			rec.AgeRange = c.AgeRange.Type
		}
		if c.Gender != nil && c.Gender.Type != "" {
			rec.Gender = c.Gender.Type
		}
	}

	return rec
}

// NormalizeGeographic maps a geographic_view row to a GeographicRecord.
// Absent geographic fields stay absent; there is no string default here.
func NormalizeGeographic(row model.RawRow) model.GeographicRecord {
	rec := model.GeographicRecord{
		CampaignID:   campaignID(row),
		CampaignName: campaignName(row),
		Date:         segmentDate(row),
		Metrics:      coerceMetrics(row.Metrics),
	}

	if v := row.GeographicView; v != nil {
		rec.CountryCriterionID = v.CountryCriterionID
		rec.LocationType = v.LocationType
	}

	return rec
}

// Normalize maps every row of a result set to the record shape of kind.
// Rows are mapped independently and keep their upstream order.
func Normalize(kind model.ReportKind, rows []model.RawRow) *model.Report {
	report := &model.Report{Kind: kind}

	switch kind {
	case model.ReportKeywords:
		report.Keywords = make([]model.KeywordRecord, 0, len(rows))
		for _, row := range rows {
			report.Keywords = append(report.Keywords, NormalizeKeyword(row))
		}
	case model.ReportDemographics:
		report.Demographics = make([]model.DemographicRecord, 0, len(rows))
		for _, row := range rows {
			report.Demographics = append(report.Demographics, NormalizeDemographic(row))
		}
	case model.ReportGeographic:
		report.Geographic = make([]model.GeographicRecord, 0, len(rows))
		for _, row := range rows {
			report.Geographic = append(report.Geographic, NormalizeGeographic(row))
		}
	}

	return report
}

// CoerceInt converts a raw metric to an integer the way JavaScript's parseInt
// would, falling back to 0. Unquoted JSON numbers go through truncateNumber.
func CoerceInt(n model.Number) int64 {
	if !n.Present {
		return 0
	}

	if !n.Quoted {
		if f, err := strconv.ParseFloat(n.Literal, 64); err == nil && isFinite(f) {
			return truncateNumber(f)
		}
	}

	digits := intPrefix.FindString(strings.TrimLeftFunc(n.Literal, unicode.IsSpace))
	if digits == "" {
		return 0
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// truncateNumber applies parseInt to a number. Magnitudes JavaScript prints in
// exponent form (>= 1e21 or < 1e-6) keep only their leading digit. Values
// between 2^63 and 1e21 do not fit int64 and coerce to 0.
func truncateNumber(f float64) int64 {
	abs := math.Abs(f)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		digit := int64(strconv.FormatFloat(abs, 'e', -1, 64)[0] - '0')
		if f < 0 {
			return -digit
		}
		return digit
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}

// CoerceFloat converts a raw metric to a float the way JavaScript's
// parseFloat would, falling back to 0 for absent or non-finite values.
func CoerceFloat(n model.Number) float64 {
	if !n.Present {
		return 0
	}

	prefix := floatPrefix.FindString(strings.TrimLeftFunc(n.Literal, unicode.IsSpace))
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || !isFinite(f) {
		return 0
	}
	return f
}

func coerceMetrics(m *model.RawMetrics) model.Metrics {
	if m == nil {
		return model.Metrics{}
	}
	return model.Metrics{
		Impressions: CoerceInt(m.Impressions),
		Clicks:      CoerceInt(m.Clicks),
		CostMicros:  CoerceInt(m.CostMicros),
		Conversions: CoerceFloat(m.Conversions),
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func campaignID(row model.RawRow) model.Text {
	if row.Campaign == nil {
		return ""
	}
	return row.Campaign.ID
}

func campaignName(row model.RawRow) model.Text {
	if row.Campaign == nil {
		return ""
	}
	return row.Campaign.Name
}

func adGroupID(row model.RawRow) model.Text {
	if row.AdGroup == nil {
		return ""
	}
	return row.AdGroup.ID
}

func adGroupName(row model.RawRow) model.Text {
	if row.AdGroup == nil {
		return ""
	}
	return row.AdGroup.Name
}

func segmentDate(row model.RawRow) model.Text {
	if row.Segments == nil {
		return ""
	}
	return row.Segments.Date
}
