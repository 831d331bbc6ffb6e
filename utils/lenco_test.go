package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/michaelsiame/edutrack-lms-sub004/config"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeProviderStatus(t *testing.T) {
	cases := []struct {
		status string
		want   GatewayStatus
	}{
		{"successful", GatewayStatusSuccess},
		{"success", GatewayStatusSuccess},
		{"settled", GatewayStatusSuccess},
		{"completed", GatewayStatusSuccess},
		{"paid", GatewayStatusSuccess},
		{"ts", GatewayStatusSuccess},
		{"SUCCESSFUL", GatewayStatusSuccess},
		{"  settled  ", GatewayStatusSuccess},
		{"failed", GatewayStatusFailed},
		{"failure", GatewayStatusFailed},
		{"declined", GatewayStatusFailed},
		{"rejected", GatewayStatusFailed},
		{"cancelled", GatewayStatusFailed},
		{"expired", GatewayStatusFailed},
		{"pending", GatewayStatusUnknown},
		{"pay-offline", GatewayStatusUnknown},
		{"", GatewayStatusUnknown},
		{"garbage", GatewayStatusUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeProviderStatus(tc.status), "status %q", tc.status)
	}
}

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	config.AppConfig = &config.Config{LencoWebhookSecret: "test-secret"}

	payload := []byte(`{"event":"collection.successful","data":{"reference":"EDU-1"}}`)
	signature := signPayload("test-secret", payload)

	assert.True(t, VerifyWebhookSignature(payload, signature))

	// Hex casing from the provider must not matter.
	assert.True(t, VerifyWebhookSignature(payload, strings.ToUpper(signature)))

	assert.False(t, VerifyWebhookSignature(payload, signPayload("wrong-secret", payload)))
	assert.False(t, VerifyWebhookSignature(payload, ""))
	assert.False(t, VerifyWebhookSignature([]byte(`tampered`), signature))
}

func TestVerifyWebhookSignatureFailsClosedWithoutSecret(t *testing.T) {
	config.AppConfig = &config.Config{LencoWebhookSecret: ""}

	payload := []byte(`{}`)
	assert.False(t, VerifyWebhookSignature(payload, signPayload("", payload)))
}

func TestVerifyWebhookSignatureDevBypass(t *testing.T) {
	config.AppConfig = &config.Config{WebhookDevBypass: true}

	assert.True(t, VerifyWebhookSignature([]byte(`{}`), ""))
	assert.True(t, VerifyWebhookSignature([]byte(`{}`), "not-a-signature"))
}

func TestGeneratePaymentReference(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ref := GeneratePaymentReference()
		assert.True(t, strings.HasPrefix(ref, "EDU-"))
		assert.Equal(t, strings.ToUpper(ref), ref)
		assert.False(t, seen[ref], "reference %s generated twice", ref)
		seen[ref] = true
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "ZMW 150.00", FormatAmount(150, "ZMW"))
	assert.Equal(t, "ZMW 99.50", FormatAmount(99.5, "ZMW"))
}
