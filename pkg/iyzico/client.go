// Package iyzico is a minimal client for the iyzico hosted checkout form API:
// initialize a checkout session, then retrieve its result by token after the
// gateway calls back.
package iyzico

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	initializePath = "/payment/iyzipos/checkoutform/initialize/auth/ecom"
	retrievePath   = "/payment/iyzipos/checkoutform/auth/ecom/detail"

	// StatusSuccess is the value of the top-level Status field on success.
	StatusSuccess = "success"
	// PaymentStatusSuccess is the confirmed payment state on retrieval.
	PaymentStatusSuccess = "SUCCESS"
)

type Client struct {
	BaseURL    string
	APIKey     string
	SecretKey  string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey, secretKey string) *Client {
	return &Client{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		SecretKey: secretKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type BasketItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category1 string `json:"category1"`
	ItemType  string `json:"itemType"`
	Price     string `json:"price"`
}

type Buyer struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	GsmNumber           string `json:"gsmNumber,omitempty"`
	Email               string `json:"email"`
	IdentityNumber      string `json:"identityNumber"`
	LastLoginDate       string `json:"lastLoginDate,omitempty"`
	RegistrationAddress string `json:"registrationAddress"`
	IP                  string `json:"ip"`
	City                string `json:"city"`
	Country             string `json:"country"`
}

type Address struct {
	ContactName string `json:"contactName"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Address     string `json:"address"`
}

type CheckoutFormRequest struct {
	Locale              string       `json:"locale"`
	ConversationID      string       `json:"conversationId"`
	Price               string       `json:"price"`
	PaidPrice           string       `json:"paidPrice"`
	Currency            string       `json:"currency"`
	BasketID            string       `json:"basketId"`
	PaymentGroup        string       `json:"paymentGroup"`
	CallbackURL         string       `json:"callbackUrl"`
	EnabledInstallments []int        `json:"enabledInstallments"`
	Buyer               Buyer        `json:"buyer"`
	ShippingAddress     Address      `json:"shippingAddress"`
	BillingAddress      Address      `json:"billingAddress"`
	BasketItems         []BasketItem `json:"basketItems"`
}

type InitializeResponse struct {
	Status              string `json:"status"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
	Token               string `json:"token"`
	CheckoutFormContent string `json:"checkoutFormContent"`
}

type RetrieveResponse struct {
	Status         string `json:"status"`
	PaymentStatus  string `json:"paymentStatus"`
	ErrorCode      string `json:"errorCode"`
	ErrorMessage   string `json:"errorMessage"`
	PaymentID      string `json:"paymentId"`
	ConversationID string `json:"conversationId"`
	BasketID       string `json:"basketId"`
	PaidPrice      string `json:"paidPrice"`
	Token          string `json:"token"`
}

// InitializeCheckoutForm starts a hosted checkout session. The response
// carries renderable form content and a token the gateway echoes back on the
// callback.
func (c *Client) InitializeCheckoutForm(req *CheckoutFormRequest) (*InitializeResponse, error) {
	var response InitializeResponse
	if err := c.post(initializePath, req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// RetrieveCheckoutForm fetches the payment result for a callback token.
func (c *Client) RetrieveCheckoutForm(token string) (*RetrieveResponse, error) {
	body := map[string]string{"token": token}
	var response RetrieveResponse
	if err := c.post(retrievePath, body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) post(path string, payload interface{}, dest interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	randomKey := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-iyzi-rnd", randomKey)
	req.Header.Set("Authorization", c.authorizationHeader(randomKey, path, jsonData))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// authorizationHeader builds the IYZWSv2 scheme: an HMAC-SHA256 of
// randomKey + uriPath + body keyed with the secret, wrapped in base64
// together with the api key and random key.
func (c *Client) authorizationHeader(randomKey, path string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.SecretKey))
	mac.Write([]byte(randomKey))
	mac.Write([]byte(path))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	authParams := fmt.Sprintf("apiKey:%s&randomKey:%s&signature:%s", c.APIKey, randomKey, signature)
	return "IYZWSv2 " + base64.StdEncoding.EncodeToString([]byte(authParams))
}
