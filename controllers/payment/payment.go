package paymentController

import (
	"errors"
	"log"

	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/middleware"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"
	"github.com/michaelsiame/edutrack-lms-sub004/utils"

	"github.com/gofiber/fiber/v2"
)

// InitiatePayment opens a collection with the gateway for a pending payment
// record and returns the virtual-account details the student should pay into
func InitiatePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	paymentID := c.Locals("paymentID").(int)

	reqData, ok := c.Locals("validatedInitiate").(*struct {
		Phone    string `json:"phone" validate:"required,min=9,max=15"`
		Operator string `json:"operator" validate:"required,oneof=mtn airtel zamtel"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var payment models.PaymentRecord
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", paymentID, userID, false).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment record not found!", nil)
	}

	if payment.Status != models.PaymentStatusPending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment is already finalized!", nil)
	}

	collection, err := utils.InitializeCollection(payment.Amount, payment.Currency, payment.Reference, reqData.Phone, reqData.Operator)
	if err != nil {
		log.Printf("[PAYMENT] Gateway initialization failed for %s: %v", payment.Reference, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment provider is unavailable. Try again shortly.", nil)
	}

	payment.ProviderReference = collection.LencoReference
	payment.PaymentMethod = "mobile-money"
	payment.Provider = reqData.Operator
	payment.ProviderRawPayload = collection.RawBody
	if err := db.Save(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update payment record!", nil)
	}

	var course courseModels.Course
	if db.Where("id = ?", payment.CourseID).First(&course).Error == nil {
		utils.SendPaymentInstructionsEmail(user.Email, user.Name, course.Title, payment.Amount, payment.Currency, collection.VirtualAccount)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment initiated!", fiber.Map{
		"payment":         payment,
		"virtual_account": collection.VirtualAccount,
	})
}

// GetPaymentStatus polls the gateway for a pending payment and applies any
// terminal status it reports. Uses the same guarded transitions as the
// webhook, so a poll racing a webhook settles exactly once.
func GetPaymentStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	paymentID := c.Locals("paymentID").(int)

	db := database.Database.Db

	var payment models.PaymentRecord
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", paymentID, userID, false).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment record not found!", nil)
	}

	if payment.Status != models.PaymentStatusPending {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment status fetched!", payment)
	}

	if payment.ProviderReference == "" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment not initiated yet.", payment)
	}

	status, err := utils.GetCollectionStatus(payment.Reference)
	if err != nil {
		log.Printf("[PAYMENT] Status poll failed for %s: %v", payment.Reference, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment provider is unavailable. Try again shortly.", nil)
	}

	switch utils.NormalizeProviderStatus(status.Status) {
	case utils.GatewayStatusSuccess:
		// A webhook may have settled this payment already; only a fresh
		// settlement triggers the notification.
		switch err := models.SettlePayment(db, &payment, status.LencoReference); {
		case err == nil:
			notifySettled(&payment)
		case !errors.Is(err, models.ErrAlreadyFinalized):
			log.Printf("[PAYMENT] Settlement failed for %s: %v", payment.Reference, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
		}
	case utils.GatewayStatusFailed:
		if err := payment.MarkFailed(db, "provider reported "+status.Status); err != nil && !errors.Is(err, models.ErrAlreadyFinalized) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment failure!", nil)
		}
	}

	// Reload for the caller
	db.Where("id = ?", payment.ID).First(&payment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment status fetched!", payment)
}

// GetPaymentHistory lists the caller's payment records
func GetPaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.PaymentRecord{}).Where("user_id = ? AND is_deleted = ?", userID, false)

	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var payments []models.PaymentRecord
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetPaymentPlan returns the payment plan and balance for an enrollment
func GetPaymentPlan(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	var plan models.PaymentPlan
	if err := database.Database.Db.
		Where("enrollment_id = ? AND user_id = ? AND is_deleted = ?", enrollmentID, userID, false).
		First(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment plan not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment plan fetched!", plan)
}

// notifySettled emails the student after a successful settlement
func notifySettled(payment *models.PaymentRecord) {
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ?", payment.UserID).First(&user).Error; err != nil {
		return
	}
	var course courseModels.Course
	if err := db.Where("id = ?", payment.CourseID).First(&course).Error; err != nil {
		return
	}

	utils.SendEnrollmentActivatedEmail(user.Email, user.Name, course.Title, payment.Amount, payment.Currency)
}
