package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/omuct/eat-and-go-sub000/internal/config"
)

// Client Brevo 事务邮件 API 客户端
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// New 根据配置构建客户端
func New(cfg *config.MailConfig) *Client {
	return &Client{
		APIKey:  cfg.BrevoAPIKey,
		BaseURL: strings.TrimRight(cfg.BrevoURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Contact 收件人/发件人
type Contact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendRequest 发送请求体（POST /v3/smtp/email）
type SendRequest struct {
	Sender      Contact   `json:"sender"`
	To          []Contact `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Send 发送一封 HTML 邮件，返回 messageId
func (c *Client) Send(ctx context.Context, req *SendRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v3/smtp/email", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-key", c.APIKey)

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out sendResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode >= 300 {
		if out.Message != "" {
			return "", fmt.Errorf("brevo send failed: %s %s", out.Code, out.Message)
		}
		return "", fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return out.MessageID, nil
}
