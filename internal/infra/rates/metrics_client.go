package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

type ModelMetrics struct {
	MAE       float64 `json:"mae"`
	RMSE      float64 `json:"rmse"`
	TrainSize int     `json:"train_size"`
	TestSize  int     `json:"test_size"`
}

type RateModelMetrics struct {
	Boarding ModelMetrics `json:"boarding"`
	Daycare  ModelMetrics `json:"daycare"`
}

// MetricsClient fetches model quality metrics from the rate service.
type MetricsClient struct {
	Endpoint string
	Client   *http.Client
	Logger   *slog.Logger
}

func (c *MetricsClient) Fetch(ctx context.Context) (*RateModelMetrics, error) {
	if c == nil || c.Client == nil {
		return nil, errors.New("rate metrics: http client not configured")
	}
	if c.Endpoint == "" {
		return nil, errors.New("rate metrics: endpoint not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			err = fmt.Errorf("rate metrics: rate service timeout (%s)", c.Endpoint)
		} else {
			err = fmt.Errorf("rate metrics: rate service unavailable (%s)", c.Endpoint)
		}
		c.logError("metrics request failed", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("rate metrics: rate service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		c.logError("metrics returned error", err)
		return nil, err
	}

	var metrics RateModelMetrics
	if err := json.NewDecoder(resp.Body).Decode(&metrics); err != nil {
		c.logError("metrics decode failed", err)
		return nil, err
	}
	return &metrics, nil
}

func (c *MetricsClient) logError(msg string, err error) {
	if c.Logger != nil {
		c.Logger.Error(msg, "error", err)
	}
}
