package model

// Metrics is the coerced metric block shared by every record shape.
type Metrics struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CostMicros  int64   `json:"costMicros"`
	Conversions float64 `json:"conversions"`
}

// KeywordMetrics adds conversion value to Metrics.
type KeywordMetrics struct {
	Metrics
	ConversionsValue float64 `json:"conversionsValue"`
}

// KeywordRecord is the normalized keyword_view row.
type KeywordRecord struct {
	CriterionID  Text           `json:"criterionId"`
	KeywordText  Text           `json:"keywordText"`
	MatchType    Text           `json:"matchType"`
	Status       Text           `json:"status"`
	MaxCpcMicros Text           `json:"maxCpcMicros"`
	QualityScore *int64         `json:"qualityScore"`
	CampaignID   Text           `json:"campaignId"`
	CampaignName Text           `json:"campaignName"`
	AdGroupID    Text           `json:"adGroupId"`
	AdGroupName  Text           `json:"adGroupName"`
	Date         Text           `json:"date"`
	Metrics      KeywordMetrics `json:"metrics"`
}

// DemographicRecord is the normalized age_range_view row.
type DemographicRecord struct {
	CampaignID   Text    `json:"campaignId"`
	CampaignName Text    `json:"campaignName"`
	AdGroupID    Text    `json:"adGroupId"`
	AdGroupName  Text    `json:"adGroupName"`
	AgeRange     Text    `json:"ageRange"`
	Gender       Text    `json:"gender"`
	Date         Text    `json:"date"`
	Metrics      Metrics `json:"metrics"`
}

// GeographicRecord is the normalized geographic_view row.
// Country and location type are omitted when upstream did not send them.
type GeographicRecord struct {
	CampaignID         Text    `json:"campaignId"`
	CampaignName       Text    `json:"campaignName"`
	CountryCriterionID *Text   `json:"countryCriterionId,omitempty"`
	LocationType       *Text   `json:"locationType,omitempty"`
	Date               Text    `json:"date"`
	Metrics            Metrics `json:"metrics"`
}
