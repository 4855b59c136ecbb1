package dto

import "time"

const (
	RateLevelBelowMarket = "below_market"
	RateLevelFair        = "fair"
	RateLevelAboveMarket = "above_market"
)

type SuiteDateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type SuiteRateSuggestion struct {
	SuiteID              string         `json:"suite_id"`
	RecommendedRateCents int64          `json:"recommended_rate_cents"`
	CurrentRateCents     int64          `json:"current_rate_cents"`
	RateLevel            string         `json:"rate_level"`
	RateGapPercent       float64        `json:"rate_gap_percent"`
	Message              string         `json:"message"`
	Range                SuiteDateRange `json:"range"`
}
