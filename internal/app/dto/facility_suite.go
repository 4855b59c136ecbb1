package dto

import (
	"strings"
	"time"

	domainsuites "petlodge/internal/domain/suites"
)

type FacilitySuiteCatalog struct {
	Items []FacilitySuiteSummary   `json:"items"`
	Meta  FacilitySuiteCatalogMeta `json:"meta"`
}

type FacilitySuiteCatalogMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type FacilitySuiteSummary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	Type             string    `json:"type"`
	Capacity         int       `json:"capacity"`
	LocationCode     string    `json:"location_code"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	AvailableFrom    time.Time `json:"available_from"`
	ThumbnailURL     string    `json:"thumbnail_url"`
	Photos           []string  `json:"photos"`
	UpdatedAt        time.Time `json:"updated_at"`
	State            string    `json:"state"`
}

type FacilitySuiteDetail struct {
	ID               string    `json:"id"`
	FacilityID       string    `json:"facility_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Type             string    `json:"type"`
	Capacity         int       `json:"capacity"`
	LocationCode     string    `json:"location_code"`
	Features         []string  `json:"features"`
	MinNights        int       `json:"min_nights"`
	MaxNights        int       `json:"max_nights"`
	MaxAdvanceDays   int       `json:"max_advance_days"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	Rating           float64   `json:"rating"`
	ThumbnailURL     string    `json:"thumbnail_url"`
	Photos           []string  `json:"photos"`
	AvailableFrom    time.Time `json:"available_from"`
	State            string    `json:"state"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	StateLabel       string    `json:"status"`
}

type SuitePhotoUploadResult struct {
	SuiteID      string   `json:"suite_id"`
	Photos       []string `json:"photos"`
	ThumbnailURL string   `json:"thumbnail_url"`
}

func MapFacilitySuiteSummary(suite *domainsuites.Suite) FacilitySuiteSummary {
	if suite == nil {
		return FacilitySuiteSummary{}
	}
	return FacilitySuiteSummary{
		ID:               string(suite.ID),
		Name:             suite.Name,
		Status:           toStatus(suite.State),
		Type:             string(suite.Type),
		Capacity:         suite.Capacity,
		LocationCode:     suite.LocationCode,
		NightlyRateCents: suite.NightlyRateCents,
		AvailableFrom:    suite.AvailableFrom,
		ThumbnailURL:     suite.ThumbnailURL,
		Photos:           append([]string(nil), suite.Photos...),
		UpdatedAt:        suite.UpdatedAt,
		State:            string(suite.State),
	}
}

func MapFacilitySuiteDetail(suite *domainsuites.Suite) FacilitySuiteDetail {
	if suite == nil {
		return FacilitySuiteDetail{}
	}
	return FacilitySuiteDetail{
		ID:               string(suite.ID),
		FacilityID:       string(suite.Facility),
		Name:             suite.Name,
		Description:      suite.Description,
		Type:             string(suite.Type),
		Capacity:         suite.Capacity,
		LocationCode:     suite.LocationCode,
		Features:         append([]string(nil), suite.Features...),
		MinNights:        suite.MinNights,
		MaxNights:        suite.MaxNights,
		MaxAdvanceDays:   suite.MaxAdvanceDays,
		NightlyRateCents: suite.NightlyRateCents,
		Rating:           suite.Rating,
		ThumbnailURL:     suite.ThumbnailURL,
		Photos:           append([]string(nil), suite.Photos...),
		AvailableFrom:    suite.AvailableFrom,
		State:            string(suite.State),
		CreatedAt:        suite.CreatedAt,
		UpdatedAt:        suite.UpdatedAt,
		StateLabel:       toStatus(suite.State),
	}
}

func toStatus(state domainsuites.SuiteState) string {
	switch state {
	case domainsuites.SuiteDraft:
		return "draft"
	case domainsuites.SuiteActive:
		return "active"
	case domainsuites.SuiteSuspended:
		return "suspended"
	default:
		return strings.ToLower(string(state))
	}
}
