package paypay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		APIKey:     "key",
		APISecret:  "secret",
		MerchantID: "merchant-1",
		BaseURL:    srv.URL,
		HTTP:       srv.Client(),
	}
}

func TestCreateQRCode(t *testing.T) {
	var gotReq createQRCodeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/codes" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-ASSUME-MERCHANT") != "merchant-1" {
			t.Errorf("missing merchant header")
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "hmac OPA-Auth:key:") {
			t.Errorf("unexpected auth header: %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(qrCodeResponse{
			ResultInfo: resultInfo{Code: "SUCCESS"},
			Data: qrCodeData{
				CodeID:            "code-1",
				URL:               "https://qr.example.com/pay/abc",
				MerchantPaymentID: gotReq.MerchantPaymentID,
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	url, err := c.CreateQRCode(context.Background(), "mp-1", 1960, "カツ丼、親子丼", "https://app.example.com/payment/mp-1")
	if err != nil {
		t.Fatalf("CreateQRCode: %v", err)
	}
	if url != "https://qr.example.com/pay/abc" {
		t.Fatalf("url = %q", url)
	}
	if gotReq.Amount.Amount != 1960 || gotReq.Amount.Currency != "JPY" {
		t.Fatalf("amount = %+v", gotReq.Amount)
	}
	if gotReq.CodeType != "ORDER_QR" {
		t.Fatalf("codeType = %q, want ORDER_QR", gotReq.CodeType)
	}
	if gotReq.RedirectType != "WEB_LINK" {
		t.Fatalf("redirectType = %q, want WEB_LINK", gotReq.RedirectType)
	}
}

func TestCreateQRCode_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(qrCodeResponse{
			ResultInfo: resultInfo{Code: "INVALID_REQUEST_PARAMS", Message: "amount required"},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	if _, err := c.CreateQRCode(context.Background(), "mp-1", 0, "", ""); err == nil {
		t.Fatal("gateway error must surface")
	}
}

func TestGetPaymentDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/codes/payments/mp-9" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(paymentResponse{
			ResultInfo: resultInfo{Code: "SUCCESS"},
			Data:       paymentData{Status: StatusCompleted, MerchantPaymentID: "mp-9"},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	status, err := c.GetPaymentDetails(context.Background(), "mp-9")
	if err != nil {
		t.Fatalf("GetPaymentDetails: %v", err)
	}
	if status != StatusCompleted {
		t.Fatalf("status = %q, want COMPLETED", status)
	}
}

func TestAuthHeaderShape(t *testing.T) {
	c := &Client{APIKey: "key", APISecret: "secret"}
	h := c.authHeader(http.MethodPost, "/v2/codes", "application/json", []byte(`{"a":1}`))
	parts := strings.Split(h, ":")
	// hmac OPA-Auth:{apiKey}:{sig}:{nonce}:{epoch}:{contentHash}
	if len(parts) != 6 {
		t.Fatalf("header parts = %d, want 6 (%q)", len(parts), h)
	}
	if parts[0] != "hmac OPA-Auth" || parts[1] != "key" {
		t.Fatalf("unexpected header prefix: %q", h)
	}
	if parts[5] == "empty" {
		t.Fatal("content hash must be computed for a non-empty payload")
	}
}
