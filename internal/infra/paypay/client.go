package paypay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/omuct/eat-and-go-sub000/internal/config"
)

// 支付状态（GetPaymentDetails 返回值）
const (
	StatusCreated   = "CREATED"
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusCanceled  = "CANCELED"
)

// Client PayPay OPA API 客户端
type Client struct {
	APIKey     string
	APISecret  string
	MerchantID string
	BaseURL    string
	HTTP       *http.Client
}

// New 根据配置构建客户端
func New(cfg *config.PayPayConfig) *Client {
	return &Client{
		APIKey:     cfg.APIKey,
		APISecret:  cfg.APISecret,
		MerchantID: cfg.MerchantID,
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		HTTP:       &http.Client{Timeout: 10 * time.Second},
	}
}

type resultInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type qrCodeData struct {
	CodeID            string `json:"codeId"`
	URL               string `json:"url"`
	MerchantPaymentID string `json:"merchantPaymentId"`
}

type qrCodeResponse struct {
	ResultInfo resultInfo `json:"resultInfo"`
	Data       qrCodeData `json:"data"`
}

type paymentData struct {
	Status            string `json:"status"`
	MerchantPaymentID string `json:"merchantPaymentId"`
}

type paymentResponse struct {
	ResultInfo resultInfo `json:"resultInfo"`
	Data       paymentData `json:"data"`
}

type moneyAmount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type createQRCodeRequest struct {
	MerchantPaymentID string      `json:"merchantPaymentId"`
	Amount            moneyAmount `json:"amount"`
	CodeType          string      `json:"codeType"`
	OrderDescription  string      `json:"orderDescription,omitempty"`
	IsAuthorization   bool        `json:"isAuthorization"`
	RedirectURL       string      `json:"redirectUrl,omitempty"`
	RedirectType      string      `json:"redirectType,omitempty"`
}

// NewMerchantPaymentID 生成一次性的支付ID
func NewMerchantPaymentID() string {
	return uuid.NewString()
}

// CreateQRCode 创建二维码支付，返回支付页 URL。
// 金额为日元整数，description 为商品名的连接串。
func (c *Client) CreateQRCode(ctx context.Context, merchantPaymentID string, amount int64, description, redirectURL string) (string, error) {
	req := createQRCodeRequest{
		MerchantPaymentID: merchantPaymentID,
		Amount:            moneyAmount{Amount: amount, Currency: "JPY"},
		CodeType:          "ORDER_QR",
		OrderDescription:  description,
		IsAuthorization:   false,
		RedirectURL:       redirectURL,
		RedirectType:      "WEB_LINK",
	}
	var resp qrCodeResponse
	if err := c.do(ctx, http.MethodPost, "/v2/codes", &req, &resp); err != nil {
		return "", err
	}
	if resp.ResultInfo.Code != "SUCCESS" {
		return "", fmt.Errorf("paypay create code failed: %s %s", resp.ResultInfo.Code, resp.ResultInfo.Message)
	}
	return resp.Data.URL, nil
}

// GetPaymentDetails 查询支付状态
func (c *Client) GetPaymentDetails(ctx context.Context, merchantPaymentID string) (string, error) {
	var resp paymentResponse
	path := "/v2/codes/payments/" + merchantPaymentID
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	if resp.ResultInfo.Code != "SUCCESS" {
		return "", fmt.Errorf("paypay get payment failed: %s %s", resp.ResultInfo.Code, resp.ResultInfo.Message)
	}
	return resp.Data.Status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var (
		payload     []byte
		err         error
		contentType = "empty"
	)
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", c.authHeader(method, path, contentType, payload))
	if c.MerchantID != "" {
		req.Header.Set("X-ASSUME-MERCHANT", c.MerchantID)
	}

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("paypay response decode failed (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

// authHeader 计算 OPA 的 HMAC 认证头：
// hmac OPA-Auth:{apiKey}:{base64 hmac}:{nonce}:{epoch}:{contentHash}
func (c *Client) authHeader(method, path, contentType string, payload []byte) string {
	nonce := uuid.NewString()[:8]
	epoch := strconv.FormatInt(time.Now().Unix(), 10)

	contentHash := "empty"
	if len(payload) > 0 {
		sum := md5.Sum(append([]byte(contentType), payload...))
		contentHash = base64.StdEncoding.EncodeToString(sum[:])
	}

	raw := strings.Join([]string{path, method, nonce, epoch, contentType, contentHash}, "\n")
	mac := hmac.New(sha256.New, []byte(c.APISecret))
	mac.Write([]byte(raw))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("hmac OPA-Auth:%s:%s:%s:%s:%s", c.APIKey, sig, nonce, epoch, contentHash)
}
