package lalamove

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/manokmart/manokmart-BE/internal/util"
	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

const defaultRequestTimeout = 15 * time.Second

// Client is a typed wrapper over the Lalamove v3 REST API. It holds only
// immutable configuration, so one instance is safe for concurrent use; each
// call computes a fresh timestamp, request ID, and signature.
//
// The client never retries. Retry policy belongs to the orchestrator.
type Client struct {
	apiKey    string
	apiSecret string
	market    string
	baseURL   string
	http      *resty.Client
}

// NewClient validates credentials up front: missing configuration is a
// startup failure, not something to discover on the first delivery.
func NewClient(config *util.Config) (*Client, error) {
	if config.LalamoveAPIKey == "" || config.LalamoveAPISecret == "" {
		return nil, fmt.Errorf("lalamove API key and secret are required")
	}
	if config.LalamoveSandboxURL == "" {
		return nil, fmt.Errorf("lalamove base URL is required")
	}

	httpClient := resty.New().SetTimeout(defaultRequestTimeout)

	return &Client{
		apiKey:    config.LalamoveAPIKey,
		apiSecret: config.LalamoveAPISecret,
		market:    config.LalamoveMarket,
		baseURL:   config.LalamoveSandboxURL,
		http:      httpClient,
	}, nil
}

// do runs one provider call through the single serialize → sign → send path.
// Every operation goes through here so the signed bytes are always exactly
// the transmitted bytes; no operation may hand-construct its own JSON body.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	body, err := CanonicalJSON(payload)
	if err != nil {
		return err
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	signature := SignRequest(c.apiSecret, timestamp, method, path, body)

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", AuthorizationHeader(c.apiKey, timestamp, signature)).
		SetHeader("Market", c.market).
		SetHeader("Request-ID", uuid.NewString()).
		SetHeader("Content-Type", "application/json")

	if body != "" {
		req.SetBody([]byte(body))
	}

	resp, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		return &TransportError{Err: err}
	}

	respBody := resp.Bytes()

	// Bodies are never logged: they carry customer names, phone numbers,
	// and addresses, and the Authorization header is derived from the
	// secret. Ids are enough to correlate with the provider dashboard.
	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Msg("lalamove API call")

	if resp.StatusCode() >= 400 {
		return parseProviderError(resp.StatusCode(), respBody)
	}

	if out != nil {
		if err = json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse lalamove response: %w", err)
		}
	}

	return nil
}

func parseProviderError(status int, body []byte) *ProviderError {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &ProviderError{Status: status, Message: string(body)}
	}

	providerErr := &ProviderError{Status: status, Message: parsed.Message}
	for _, entry := range parsed.Errors {
		if providerErr.Message == "" {
			providerErr.Message = entry.Message
		}
		detail := entry.Message
		if entry.Detail != "" {
			detail = fmt.Sprintf("%s: %s", entry.Message, entry.Detail)
		}
		providerErr.Details = append(providerErr.Details, detail)
	}
	if providerErr.Message == "" {
		providerErr.Message = string(body)
	}

	return providerErr
}
