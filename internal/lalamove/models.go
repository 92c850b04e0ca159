package lalamove

// ServiceType is the vehicle class requested for a delivery.
type ServiceType string

const (
	ServiceTypeMotorcycle ServiceType = "MOTORCYCLE"
	ServiceTypeCar        ServiceType = "CAR"
	ServiceTypeVan        ServiceType = "VAN"
)

// Provider order statuses. Transitions are driven by webhook events or
// explicit polling; COMPLETED, CANCELED, REJECTED and EXPIRED are terminal.
const (
	StatusAssigningDriver = "ASSIGNING_DRIVER"
	StatusOnGoing         = "ON_GOING"
	StatusPickedUp        = "PICKED_UP"
	StatusCompleted       = "COMPLETED"
	StatusCanceled        = "CANCELED"
	StatusRejected        = "REJECTED"
	StatusExpired         = "EXPIRED"
)

// IsTerminalStatus reports whether a provider status will never change again.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusCanceled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// Coordinates is a waypoint position. Lalamove takes both values as decimal
// strings, not numbers.
type Coordinates struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Contact is the person reachable at a stop.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Stop is a pickup or dropoff waypoint in a delivery route. Contacts are
// carried here for order creation; the quotation step ignores them since the
// provider's quote schema only accepts coordinates and address.
type Stop struct {
	StopID      string      `json:"stopId,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Address     string      `json:"address"`
	Contacts    []Contact   `json:"-"`
}

// QuotationParams are the inputs to GetQuotation.
type QuotationParams struct {
	ServiceType ServiceType
	Language    string
	Stops       []Stop
}

// quotationStop is the wire shape of a stop in a quotation request. No
// contacts and no stopId: the provider assigns stop IDs in its response.
type quotationStop struct {
	Coordinates Coordinates `json:"coordinates"`
	Address     string      `json:"address"`
}

// QuotationStop is a stop echoed back in a quotation response, now carrying
// the provider-assigned stopId used to correlate order creation.
type QuotationStop struct {
	StopID      string      `json:"stopId"`
	Coordinates Coordinates `json:"coordinates"`
	Address     string      `json:"address"`
}

// PriceBreakdown is the quoted price. The quote's total is the authoritative
// delivery fee; order-creation responses echo a breakdown but pricing is
// only binding at quotation time.
type PriceBreakdown struct {
	Base                    string `json:"base,omitempty"`
	ExtraMileage            string `json:"extraMileage,omitempty"`
	PriorityFee             string `json:"priorityFee,omitempty"`
	Total                   string `json:"total"`
	TotalExcludePriorityFee string `json:"totalExcludePriorityFee,omitempty"`
	Currency                string `json:"currency"`
}

// Quotation is a provider-issued, short-lived price and route estimate. Its
// QuotationID must be supplied verbatim to PlaceOrder before it expires.
type Quotation struct {
	QuotationID    string          `json:"quotationId"`
	ScheduleAt     string          `json:"scheduleAt,omitempty"`
	ExpiresAt      string          `json:"expiresAt,omitempty"`
	ServiceType    ServiceType     `json:"serviceType"`
	Language       string          `json:"language,omitempty"`
	Stops          []QuotationStop `json:"stops"`
	PriceBreakdown PriceBreakdown  `json:"priceBreakdown"`
}

// Waypoint identifies a contact at a quoted stop for order creation.
type Waypoint struct {
	StopID  string `json:"stopId"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Remarks string `json:"remarks,omitempty"`
}

// OrderMetadata is free-form data echoed back on the order and in webhooks.
type OrderMetadata struct {
	Reference string `json:"reference,omitempty"`
}

// PlaceOrderParams are the inputs to PlaceOrder. QuotationID and the stop
// IDs inside Sender/Recipients must come from the same prior quotation.
type PlaceOrderParams struct {
	QuotationID string
	Sender      Waypoint
	Recipients  []Waypoint
	Metadata    OrderMetadata
}

// Order is a provider-side delivery order.
type Order struct {
	OrderID        string         `json:"orderId"`
	QuotationID    string         `json:"quotationId,omitempty"`
	Status         string         `json:"status"`
	DriverID       string         `json:"driverId,omitempty"`
	ShareLink      string         `json:"shareLink,omitempty"`
	PriceBreakdown PriceBreakdown `json:"priceBreakdown"`
	Metadata       OrderMetadata  `json:"metadata,omitempty"`
}

// Driver is populated only after the provider assigns one.
type Driver struct {
	DriverID    string `json:"driverId,omitempty"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	PlateNumber string `json:"plateNumber"`
	Photo       string `json:"photo,omitempty"`
}

// DriverLocation is the driver's last reported position.
type DriverLocation struct {
	Location  Coordinates `json:"location"`
	UpdatedAt string      `json:"updatedAt,omitempty"`
}

// errorResponse is the provider's error body shape.
type errorResponse struct {
	Message string `json:"message"`
	Errors  []struct {
		ID      string `json:"id"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"errors"`
}
