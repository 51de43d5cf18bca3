package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/roamly/api/internal/config"
)

func testPayload() InitPayload {
	return InitPayload{
		TransactionID:   "tran_abc123",
		Amount:          150,
		ProductName:     "Street Food After Dark",
		CustomerName:    "Mina",
		CustomerEmail:   "mina@example.com",
		CustomerPhone:   "+8801700000000",
		CustomerAddress: "12 Lake Road",
	}
}

func TestInitPaymentCallbackURLsCarryTransactionID(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form = r.PostForm
		w.Write([]byte(`{"status":"SUCCESS","sessionkey":"sk1","GatewayPageURL":"https://pay.example.com/sk1"}`))
	}))
	defer srv.Close()

	client := NewClient(config.GatewayConfig{
		StoreID:    "store",
		StorePass:  "pass",
		PaymentAPI: srv.URL,
		SuccessURL: "https://api.example.com/api/v1/payment/success",
		FailURL:    "https://api.example.com/api/v1/payment/fail/",
		CancelURL:  "https://api.example.com/api/v1/payment/cancel",
	})

	res, err := client.InitPayment(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("InitPayment: %v", err)
	}
	if res.GatewayPageURL != "https://pay.example.com/sk1" {
		t.Errorf("unexpected page url %q", res.GatewayPageURL)
	}

	// Each callback must resolve to the per-transaction route, otherwise the
	// gateway's redirect can never identify the payment.
	wants := map[string]string{
		"success_url": "https://api.example.com/api/v1/payment/success/tran_abc123",
		"fail_url":    "https://api.example.com/api/v1/payment/fail/tran_abc123",
		"cancel_url":  "https://api.example.com/api/v1/payment/cancel/tran_abc123",
	}
	for key, want := range wants {
		if got := form.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if form.Get("tran_id") != "tran_abc123" {
		t.Errorf("tran_id = %q", form.Get("tran_id"))
	}
	if form.Get("total_amount") != "150.00" {
		t.Errorf("total_amount = %q", form.Get("total_amount"))
	}
}

func TestInitPaymentRejectedSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","failedreason":"store credential mismatch"}`))
	}))
	defer srv.Close()

	client := NewClient(config.GatewayConfig{PaymentAPI: srv.URL})
	if _, err := client.InitPayment(context.Background(), testPayload()); err == nil {
		t.Fatal("expected an error when the gateway returns no page url")
	}
}
