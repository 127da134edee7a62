// Package points implements the outbound client for the loyalty-points
// service. The engine only ever awards points for delivered orders and burns
// points redeemed at checkout; balance bookkeeping lives on the other side.
package points

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

const requestTimeout = 5 * time.Second

// HTTPPointsClient implements ports.PointsClient against the points
// service's JSON API.
type HTTPPointsClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPointsClient(baseURL string) *HTTPPointsClient {
	return &HTTPPointsClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type pointsRequest struct {
	CustomerID string `json:"customer_id"`
	OrderID    string `json:"order_id"`
	Amount     int64  `json:"amount"`
}

func (c *HTTPPointsClient) Award(ctx context.Context, customerID kernel.UUID, orderID kernel.UUID, amount kernel.Money) error {
	return c.post(ctx, "/points/award", customerID, orderID, amount)
}

func (c *HTTPPointsClient) Redeem(ctx context.Context, customerID kernel.UUID, orderID kernel.UUID, amount kernel.Money) error {
	return c.post(ctx, "/points/redeem", customerID, orderID, amount)
}

func (c *HTTPPointsClient) post(ctx context.Context, path string, customerID kernel.UUID, orderID kernel.UUID, amount kernel.Money) error {
	body, err := json.Marshal(pointsRequest{
		CustomerID: customerID.String(),
		OrderID:    orderID.String(),
		Amount:     int64(amount),
	})
	if err != nil {
		return fmt.Errorf("encode points request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build points request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call points service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("points service %s returned %d", path, resp.StatusCode)
	}

	return nil
}
