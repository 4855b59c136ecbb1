package rates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"petlodge/internal/app/policies"
	domainrange "petlodge/internal/domain/shared/daterange"
	domainsuites "petlodge/internal/domain/suites"
)

// ModelClient delegates nightly-rate suggestions to an external rate model.
type ModelClient struct {
	Client   *http.Client
	Endpoint string
	Logger   *slog.Logger
	Clamps   ClampConfig
}

type predictRequest struct {
	SuiteID          string  `json:"suite_id,omitempty"`
	SuiteType        string  `json:"suite_type"`
	Capacity         int     `json:"capacity"`
	LocationCode     string  `json:"location_code"`
	Rating           float64 `json:"rating"`
	Nights           int     `json:"nights"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	CurrentRateCents int64   `json:"current_rate_cents,omitempty"`
}

type predictResponse struct {
	SuiteID         string   `json:"suite_id"`
	RecommendedRate float64  `json:"recommended_rate"`
	CurrentRate     *float64 `json:"current_rate"`
	Diff            *float64 `json:"diff"`
}

// SuggestNightlyRate calls the rate model and clamps its output to sane
// bounds for the suite type.
func (c *ModelClient) SuggestNightlyRate(ctx context.Context, suite *domainsuites.Suite, dr domainrange.DateRange) (int64, error) {
	if c == nil || c.Client == nil {
		return 0, errors.New("rates: http client not configured")
	}
	if c.Endpoint == "" {
		return 0, errors.New("rates: model endpoint not configured")
	}
	if suite == nil {
		return 0, errors.New("rates: suite missing")
	}

	reqPayload := predictRequest{
		SuiteID:          string(suite.ID),
		SuiteType:        string(suite.Type),
		Capacity:         suite.Capacity,
		LocationCode:     suite.LocationCode,
		Rating:           suite.Rating,
		Nights:           dr.Nights(),
		CheckIn:          dr.CheckIn.Format(time.RFC3339),
		CheckOut:         dr.CheckOut.Format(time.RFC3339),
		CurrentRateCents: suite.NightlyRateCents,
	}

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return 0, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(request)
	if err != nil {
		c.logError("rate model request failed", suite.ID, err)
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("rate model returned status %d: %s", resp.StatusCode, string(snippet))
		c.logError("rate model returned error", suite.ID, err)
		return 0, err
	}

	var modelResp predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelResp); err != nil {
		c.logError("rate model decode failed", suite.ID, err)
		return 0, err
	}

	recommendedRaw := int64(math.Round(modelResp.RecommendedRate))
	recommendedFinal, clampMin, clampMax, clamped := applyClamps(recommendedRaw, c.clamps(), suite.Type)

	if c.Logger != nil {
		c.Logger.Info(
			"rate suggestion post-processed",
			"suite_id", suite.ID,
			"suite_type", suite.Type,
			"rate_raw", recommendedRaw,
			"rate_final", recommendedFinal,
			"clamped", clamped,
			"clamp_min", clampMin,
			"clamp_max", clampMax,
		)
	}
	return recommendedFinal, nil
}

func (c *ModelClient) logError(msg string, suiteID domainsuites.SuiteID, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.Error(msg, "suite_id", suiteID, "error", err)
}

func (c *ModelClient) clamps() ClampConfig {
	if c == nil || c.Clamps.Defaults == nil {
		return DefaultClampConfig()
	}
	return c.Clamps
}

var _ policies.RatesPort = (*ModelClient)(nil)
