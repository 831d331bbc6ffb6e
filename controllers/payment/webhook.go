package paymentController

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	"github.com/michaelsiame/edutrack-lms-sub004/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// webhookAmount accepts both the quoted and numeric encodings Lenco has used
// for amounts across API versions.
type webhookAmount float64

func (a *webhookAmount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*a = webhookAmount(f)
	return nil
}

// webhookEvent is the payload Lenco posts on collection status changes
type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference      string        `json:"reference"`
		LencoReference string        `json:"lencoReference"`
		Status         string        `json:"status"`
		Amount         webhookAmount `json:"amount"`
	} `json:"data"`
}

// webhookReply answers the provider, not our API clients, so it uses the
// provider's expected shape instead of the standard response envelope
func webhookReply(c *fiber.Ctx, code int, status, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"message": message,
	})
}

// LencoWebhook ingests gateway callbacks. Every delivery is logged before any
// processing. A 500 reply makes the provider redeliver; duplicates of settled
// payments are acknowledged with 200 and change nothing.
func LencoWebhook(c *fiber.Ctx) error {
	db := database.Database.Db

	body := c.Body()
	signature := c.Get("X-Lenco-Signature")

	valid := utils.VerifyWebhookSignature(body, signature)

	webhookLog := models.WebhookLog{
		Provider:       "lenco",
		Payload:        string(body),
		Signature:      signature,
		SignatureValid: valid,
	}
	if err := db.Create(&webhookLog).Error; err != nil {
		log.Printf("[WEBHOOK] Failed to persist webhook log: %v", err)
		return webhookReply(c, fiber.StatusInternalServerError, "error", "failed to record webhook")
	}

	if !valid {
		log.Printf("[WEBHOOK] Rejected delivery with invalid signature")
		return webhookReply(c, fiber.StatusUnauthorized, "error", "invalid signature")
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		db.Model(&webhookLog).Updates(map[string]interface{}{
			"error_message": "malformed payload: " + err.Error(),
		})
		return webhookReply(c, fiber.StatusBadRequest, "error", "malformed payload")
	}

	db.Model(&webhookLog).Update("event_type", event.Event)

	normalized := utils.NormalizeProviderStatus(event.Data.Status)
	if normalized == utils.GatewayStatusUnknown {
		// In-flight or unrecognized status: acknowledge and wait for the next
		// delivery.
		db.Model(&webhookLog).Update("processed", true)
		return webhookReply(c, fiber.StatusOK, "success", "no action for status "+event.Data.Status)
	}

	payment, err := models.FindPaymentByReference(db, event.Data.Reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			db.Model(&webhookLog).Update("error_message", "unknown payment reference "+event.Data.Reference)
			return webhookReply(c, fiber.StatusInternalServerError, "error", "unknown payment reference")
		}
		db.Model(&webhookLog).Update("error_message", err.Error())
		return webhookReply(c, fiber.StatusInternalServerError, "error", "lookup failed")
	}

	switch normalized {
	case utils.GatewayStatusSuccess:
		err = models.SettlePayment(db, payment, event.Data.LencoReference)
		if err == nil {
			notifySettled(payment)
		}
	case utils.GatewayStatusFailed:
		err = payment.MarkFailed(db, "provider reported "+event.Data.Status)
	}

	if err != nil {
		if errors.Is(err, models.ErrAlreadyFinalized) {
			// Redelivery of an already-settled payment; nothing changed.
			db.Model(&webhookLog).Update("processed", true)
			return webhookReply(c, fiber.StatusOK, "success", "payment already finalized")
		}
		log.Printf("[WEBHOOK] Processing failed for %s: %v", event.Data.Reference, err)
		db.Model(&webhookLog).Update("error_message", err.Error())
		return webhookReply(c, fiber.StatusInternalServerError, "error", "processing failed")
	}

	db.Model(&webhookLog).Update("processed", true)
	return webhookReply(c, fiber.StatusOK, "success", "webhook processed")
}
