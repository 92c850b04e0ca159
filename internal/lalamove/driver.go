package lalamove

import (
	"context"
	"net/http"
)

// GetDriver fetches the driver assigned to an order. Returns a ProviderError
// with status 404 while no driver has been assigned yet.
func (c *Client) GetDriver(ctx context.Context, orderID string) (*Driver, error) {
	if orderID == "" {
		return nil, &ValidationError{Field: "orderId", Message: "must not be empty"}
	}

	var resp struct {
		Data Driver `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v3/orders/"+orderID+"/driver", nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// GetDriverLocation fetches the driver's last reported position.
func (c *Client) GetDriverLocation(ctx context.Context, orderID string) (*DriverLocation, error) {
	if orderID == "" {
		return nil, &ValidationError{Field: "orderId", Message: "must not be empty"}
	}

	var resp struct {
		Data DriverLocation `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v3/orders/"+orderID+"/driver-location", nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}
