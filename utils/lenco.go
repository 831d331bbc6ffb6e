package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/michaelsiame/edutrack-lms-sub004/config"

	"github.com/go-resty/resty/v2"
)

// GatewayStatus is the normalized terminal status of a gateway transaction
type GatewayStatus string

const (
	GatewayStatusSuccess GatewayStatus = "SUCCESS"
	GatewayStatusFailed  GatewayStatus = "FAILED"
	GatewayStatusUnknown GatewayStatus = "UNKNOWN" // pending or unrecognized, treat as no-op
)

// VirtualAccount holds the pay-in details returned by Lenco at initialization
type VirtualAccount struct {
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	BankName      string `json:"bankName"`
}

// CollectionResponse is the normalized reply for both initialization and
// status polls
type CollectionResponse struct {
	Reference      string          `json:"reference"`
	LencoReference string          `json:"lencoReference"`
	Status         string          `json:"status"`
	Amount         float64         `json:"amount,string"`
	VirtualAccount *VirtualAccount `json:"accountDetails"`
	RawBody        string          `json:"-"`
}

type lencoEnvelope struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Data    *CollectionResponse `json:"data"`
}

// InitializeCollection asks Lenco to open a collection for the given reference.
// Mobile-money operators (mtn, airtel, zamtel) ride on the same endpoint; the
// provider routes based on the payer's number.
func InitializeCollection(amount float64, currency, reference, phone, operator string) (*CollectionResponse, error) {
	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.LencoApiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"amount":    fmt.Sprintf("%.2f", amount),
			"currency":  currency,
			"reference": reference,
			"phone":     phone,
			"operator":  operator,
		}).
		Post(config.AppConfig.LencoApiURL + "/collections/mobile-money")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		log.Printf("[LENCO] initialize failed for %s: %d %s", reference, resp.StatusCode(), resp.String())
		return nil, fmt.Errorf("lenco initialize failed: status %d", resp.StatusCode())
	}

	var envelope lencoEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, err
	}
	if !envelope.Status || envelope.Data == nil {
		return nil, fmt.Errorf("lenco initialize rejected: %s", envelope.Message)
	}

	envelope.Data.RawBody = string(resp.Body())
	return envelope.Data, nil
}

// GetCollectionStatus polls Lenco for the current status of a collection by
// our reference
func GetCollectionStatus(reference string) (*CollectionResponse, error) {
	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.LencoApiKey).
		Get(config.AppConfig.LencoApiURL + "/collections/status/" + reference)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("lenco status poll failed: status %d", resp.StatusCode())
	}

	var envelope lencoEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, err
	}
	if !envelope.Status || envelope.Data == nil {
		return nil, fmt.Errorf("lenco status poll rejected: %s", envelope.Message)
	}

	envelope.Data.RawBody = string(resp.Body())
	return envelope.Data, nil
}

// NormalizeProviderStatus maps the status strings seen across Lenco and the
// mobile-money operators onto our two terminal transitions. Anything
// unrecognized (including in-flight statuses) maps to UNKNOWN and must be
// treated as a no-op. Provider-side "cancelled" is folded into FAILED.
func NormalizeProviderStatus(status string) GatewayStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "successful", "success", "settled", "completed", "paid", "ts":
		return GatewayStatusSuccess
	case "failed", "failure", "declined", "rejected", "cancelled", "expired":
		return GatewayStatusFailed
	default:
		return GatewayStatusUnknown
	}
}

// VerifyWebhookSignature checks the HMAC-SHA256 hex signature Lenco attaches
// to webhook deliveries. Fails closed: a missing secret or signature rejects
// the payload. The dev bypass must be enabled explicitly in config.
func VerifyWebhookSignature(payload []byte, signature string) bool {
	if config.AppConfig.WebhookDevBypass {
		return true
	}

	secret := config.AppConfig.LencoWebhookSecret
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
