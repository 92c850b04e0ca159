package lalamove

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/manokmart/manokmart-BE/internal/phonenumber"
)

// PlaceOrder turns a quotation into a delivery order. This is the second
// half of the provider's mandatory two-phase protocol: the quotationId and
// every stopId must come from the same prior GetQuotation call. A stale or
// foreign quotationId is rejected by the provider and surfaced as a
// ProviderError, never swallowed.
func (c *Client) PlaceOrder(ctx context.Context, params PlaceOrderParams) (*Order, error) {
	if params.QuotationID == "" {
		return nil, &ValidationError{Field: "quotationId", Message: "must not be empty"}
	}
	if len(params.Recipients) == 0 {
		return nil, &ValidationError{Field: "recipients", Message: "at least one recipient is required"}
	}

	sender, err := validateWaypoint(params.Sender, "sender")
	if err != nil {
		return nil, err
	}

	recipients := make([]Waypoint, len(params.Recipients))
	for i, recipient := range params.Recipients {
		normalized, err := validateWaypoint(recipient, fmt.Sprintf("recipients[%d]", i))
		if err != nil {
			return nil, err
		}
		recipients[i] = normalized
	}

	payload := map[string]any{
		"data": map[string]any{
			"quotationId": params.QuotationID,
			"sender":      sender,
			"recipients":  recipients,
			"metadata":    params.Metadata,
		},
	}

	var resp struct {
		Data Order `json:"data"`
	}
	if err = c.do(ctx, http.MethodPost, "/v3/orders", payload, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// GetOrder fetches the current provider-side state of an order. GET with no
// body, still signed over an empty body section.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, &ValidationError{Field: "orderId", Message: "must not be empty"}
	}

	var resp struct {
		Data Order `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v3/orders/"+orderID, nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// CancelOrder cancels a provider order. PUT with an empty body, which still
// runs through the serializer (yielding "") and is signed like any other
// request.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return &ValidationError{Field: "orderId", Message: "must not be empty"}
	}

	return c.do(ctx, http.MethodPut, "/v3/orders/"+orderID+"/cancel", nil, nil)
}

func validateWaypoint(waypoint Waypoint, field string) (Waypoint, error) {
	if waypoint.StopID == "" {
		return Waypoint{}, &ValidationError{Field: field + ".stopId", Message: "must not be empty"}
	}
	if strings.TrimSpace(waypoint.Name) == "" {
		return Waypoint{}, &ValidationError{Field: field + ".name", Message: "must not be empty"}
	}

	phone, err := phonenumber.Normalize(waypoint.Phone)
	if err != nil {
		return Waypoint{}, &ValidationError{Field: field + ".phone", Message: err.Error()}
	}

	waypoint.Phone = phone
	return waypoint, nil
}
