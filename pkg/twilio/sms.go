package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSClient sends SMS through the Twilio Messages REST API
type SMSClient struct {
	accountSID  string
	authToken   string
	phoneNumber string
	baseURL     string
	httpClient  *http.Client
}

// SMSConfig holds Twilio SMS configuration
type SMSConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string        // Sender number, E.164
	BaseURL     string        // Default: https://api.twilio.com
	Timeout     time.Duration // Default: 15s
}

// NewSMSClient creates a new Twilio SMS client
func NewSMSClient(config SMSConfig) *SMSClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.twilio.com"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}

	return &SMSClient{
		accountSID:  config.AccountSID,
		authToken:   config.AuthToken,
		phoneNumber: config.PhoneNumber,
		baseURL:     config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// SendSMS sends a text message to the given E.164 number
func (c *SMSClient) SendSMS(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.phoneNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Twilio answers 201 on accepted messages
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
