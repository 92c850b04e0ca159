package lalamove

import (
	"context"
	"net/http"
)

// GetQuotation requests a price and route estimate for the given stops.
//
// The quotation schema deliberately excludes contacts: the provider accepts
// them only at order creation, and including them here gets the request
// rejected. Contacts attached to the stops are validated and then stripped.
func (c *Client) GetQuotation(ctx context.Context, params QuotationParams) (*Quotation, error) {
	stops, err := validateStops(params.Stops, false)
	if err != nil {
		return nil, err
	}

	wireStops := make([]quotationStop, len(stops))
	for i, stop := range stops {
		wireStops[i] = quotationStop{
			Coordinates: stop.Coordinates,
			Address:     stop.Address,
		}
	}

	payload := map[string]any{
		"data": map[string]any{
			"serviceType": string(params.ServiceType),
			"language":    params.Language,
			"stops":       wireStops,
		},
	}

	var resp struct {
		Data Quotation `json:"data"`
	}
	if err = c.do(ctx, http.MethodPost, "/v3/quotations", payload, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}
