package paymentController

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/michaelsiame/edutrack-lms-sub004/config"
	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec-test"

func setupWebhookTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		LencoWebhookSecret: testWebhookSecret,
		DefaultCurrency:    "ZMW",
	}

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/payment/webhook/lenco", LencoWebhook)
	return app, db
}

func seedPendingPayment(t *testing.T, db *gorm.DB, fee float64) *models.PaymentRecord {
	t.Helper()

	user := models.User{Name: "Chanda Mwila", Email: t.Name() + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{
		Title:    "Intro to Accounting",
		Price:    fee,
		Currency: "ZMW",
		Status:   courseModels.CourseStatusPublished,
	}
	require.NoError(t, db.Create(&course).Error)

	enrollment := courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Status:   courseModels.EnrollmentStatusPending,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	payment := models.PaymentRecord{
		UserID:       user.ID,
		CourseID:     course.ID,
		EnrollmentID: enrollment.ID,
		Amount:       fee,
		Currency:     "ZMW",
		Status:       models.PaymentStatusPending,
		Reference:    "EDU-WH-" + t.Name(),
		Provider:     "lenco",
	}
	require.NoError(t, db.Create(&payment).Error)

	plan := models.PaymentPlan{
		EnrollmentID:  enrollment.ID,
		UserID:        user.ID,
		CourseID:      course.ID,
		TotalFee:      fee,
		Balance:       fee,
		PaymentStatus: models.PlanStatusUnpaid,
	}
	require.NoError(t, db.Create(&plan).Error)

	return &payment
}

func webhookBody(reference, status string, amount float64) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"collection.%s","data":{"reference":"%s","lencoReference":"LNC-123","status":"%s","amount":"%.2f"}}`,
		status, reference, status, amount,
	))
}

func deliverWebhook(t *testing.T, app *fiber.App, body []byte, signature string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/payment/webhook/lenco", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Lenco-Signature", signature)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func replyMessage(t *testing.T, resp *http.Response) string {
	t.Helper()

	var reply struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	return reply.Message
}

func TestLencoWebhookSettlesPayment(t *testing.T) {
	app, db := setupWebhookTest(t)
	payment := seedPendingPayment(t, db, 200)

	body := webhookBody(payment.Reference, "successful", 200)
	resp := deliverWebhook(t, app, body, signBody(body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored models.PaymentRecord
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusCompleted, stored.Status)
	assert.Equal(t, "LNC-123", stored.ProviderReference)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.First(&enrollment, payment.EnrollmentID).Error)
	assert.Equal(t, courseModels.EnrollmentStatusActive, enrollment.Status)

	var plan models.PaymentPlan
	require.NoError(t, db.Where("enrollment_id = ?", payment.EnrollmentID).First(&plan).Error)
	assert.Equal(t, float64(200), plan.TotalPaid)
	assert.Equal(t, float64(0), plan.Balance)
	assert.Equal(t, models.PlanStatusCompleted, plan.PaymentStatus)

	var webhookLog models.WebhookLog
	require.NoError(t, db.Order("id desc").First(&webhookLog).Error)
	assert.True(t, webhookLog.SignatureValid)
	assert.True(t, webhookLog.Processed)
	assert.Equal(t, "collection.successful", webhookLog.EventType)
}

func TestLencoWebhookDuplicateDeliveryIsAcknowledged(t *testing.T) {
	app, db := setupWebhookTest(t)
	payment := seedPendingPayment(t, db, 200)

	body := webhookBody(payment.Reference, "successful", 200)
	resp := deliverWebhook(t, app, body, signBody(body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The provider retries the exact same delivery.
	resp = deliverWebhook(t, app, body, signBody(body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "payment already finalized", replyMessage(t, resp))

	// Settlement side effects applied exactly once.
	var plan models.PaymentPlan
	require.NoError(t, db.Where("enrollment_id = ?", payment.EnrollmentID).First(&plan).Error)
	assert.Equal(t, float64(200), plan.TotalPaid)
	assert.Equal(t, float64(0), plan.Balance)
}

func TestLencoWebhookRejectsInvalidSignature(t *testing.T) {
	app, db := setupWebhookTest(t)
	payment := seedPendingPayment(t, db, 200)

	body := webhookBody(payment.Reference, "successful", 200)
	resp := deliverWebhook(t, app, body, "deadbeef")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var stored models.PaymentRecord
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)

	// The rejected delivery is still logged for the audit trail.
	var webhookLog models.WebhookLog
	require.NoError(t, db.Order("id desc").First(&webhookLog).Error)
	assert.False(t, webhookLog.SignatureValid)
	assert.False(t, webhookLog.Processed)
}

func TestLencoWebhookFailedStatusMarksPaymentFailed(t *testing.T) {
	app, db := setupWebhookTest(t)
	payment := seedPendingPayment(t, db, 200)

	body := webhookBody(payment.Reference, "failed", 200)
	resp := deliverWebhook(t, app, body, signBody(body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored models.PaymentRecord
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, stored.Status)
	assert.Contains(t, stored.FailureReason, "failed")

	// A failed collection leaves the enrollment and plan untouched.
	var enrollment courseModels.Enrollment
	require.NoError(t, db.First(&enrollment, payment.EnrollmentID).Error)
	assert.Equal(t, courseModels.EnrollmentStatusPending, enrollment.Status)

	var plan models.PaymentPlan
	require.NoError(t, db.Where("enrollment_id = ?", payment.EnrollmentID).First(&plan).Error)
	assert.Equal(t, models.PlanStatusUnpaid, plan.PaymentStatus)
}

func TestLencoWebhookPendingStatusIsNoOp(t *testing.T) {
	app, db := setupWebhookTest(t)
	payment := seedPendingPayment(t, db, 200)

	body := webhookBody(payment.Reference, "pending", 200)
	resp := deliverWebhook(t, app, body, signBody(body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored models.PaymentRecord
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
}

func TestLencoWebhookAcceptsNumericAmount(t *testing.T) {
	app, db := setupWebhookTest(t)
	payment := seedPendingPayment(t, db, 200)

	// Some Lenco API versions send the amount as a JSON number instead of a
	// quoted string.
	body := []byte(fmt.Sprintf(
		`{"event":"collection.successful","data":{"reference":"%s","lencoReference":"LNC-123","status":"successful","amount":200}}`,
		payment.Reference,
	))
	resp := deliverWebhook(t, app, body, signBody(body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored models.PaymentRecord
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusCompleted, stored.Status)
}

func TestLencoWebhookUnknownReferenceAsksForRedelivery(t *testing.T) {
	app, _ := setupWebhookTest(t)

	body := webhookBody("EDU-UNKNOWN-REF", "successful", 200)
	resp := deliverWebhook(t, app, body, signBody(body))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestLencoWebhookMalformedPayload(t *testing.T) {
	app, db := setupWebhookTest(t)

	body := []byte("this is not json")
	resp := deliverWebhook(t, app, body, signBody(body))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var webhookLog models.WebhookLog
	require.NoError(t, db.Order("id desc").First(&webhookLog).Error)
	assert.Contains(t, webhookLog.ErrorMessage, "malformed payload")
}
