// Package gateway talks to the SSLCommerz hosted checkout. Payments are
// initiated with a form POST that returns a redirect URL, then confirmed
// against the validation API once the gateway calls back.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roamly/api/internal/config"
)

type InitPayload struct {
	TransactionID string
	Amount        float64
	ProductName   string

	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
}

type InitResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

type validationResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"tran_id"`
	Amount        string `json:"amount"`
}

// callbackURL appends the transaction id as the final path segment so the
// gateway's redirect lands on the per-transaction callback route.
func callbackURL(base, transactionID string) string {
	return strings.TrimRight(base, "/") + "/" + transactionID
}

type Client struct {
	cfg  config.GatewayConfig
	http *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// InitPayment opens a checkout session and returns the page the customer
// must be redirected to.
func (c *Client) InitPayment(ctx context.Context, p InitPayload) (*InitResponse, error) {
	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePass)
	form.Set("total_amount", fmt.Sprintf("%.2f", p.Amount))
	form.Set("currency", "BDT")
	form.Set("tran_id", p.TransactionID)
	form.Set("success_url", callbackURL(c.cfg.SuccessURL, p.TransactionID))
	form.Set("fail_url", callbackURL(c.cfg.FailURL, p.TransactionID))
	form.Set("cancel_url", callbackURL(c.cfg.CancelURL, p.TransactionID))
	form.Set("product_name", p.ProductName)
	form.Set("product_category", "Tour")
	form.Set("product_profile", "general")
	form.Set("shipping_method", "NO")
	form.Set("cus_name", p.CustomerName)
	form.Set("cus_email", p.CustomerEmail)
	form.Set("cus_phone", p.CustomerPhone)
	form.Set("cus_add1", p.CustomerAddress)
	form.Set("cus_city", "Dhaka")
	form.Set("cus_country", "Bangladesh")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.PaymentAPI, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d", res.StatusCode)
	}

	var out InitResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %v", err)
	}
	if out.GatewayPageURL == "" {
		reason := out.FailedReason
		if reason == "" {
			reason = out.Status
		}
		return nil, fmt.Errorf("gateway session rejected: %s", reason)
	}
	return &out, nil
}

// ValidatePayment confirms a callback's val_id against the validation API.
func (c *Client) ValidatePayment(ctx context.Context, valID string) error {
	q := url.Values{}
	q.Set("val_id", valID)
	q.Set("store_id", c.cfg.StoreID)
	q.Set("store_passwd", c.cfg.StorePass)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ValidationAPI+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build validation request: %v", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("validation request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("validation API returned status %d", res.StatusCode)
	}

	var out validationResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("failed to decode validation response: %v", err)
	}
	if out.Status != "VALID" && out.Status != "VALIDATED" {
		return fmt.Errorf("payment not valid, gateway status %q", out.Status)
	}
	return nil
}
