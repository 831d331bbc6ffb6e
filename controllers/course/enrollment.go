package controllers

import (
	"time"

	"github.com/michaelsiame/edutrack-lms-sub004/config"
	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/middleware"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"
	"github.com/michaelsiame/edutrack-lms-sub004/utils"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the authenticated user in a course. Free courses
// activate immediately; paid courses get a PENDING enrollment with a paired
// payment record and payment plan, activated once payment settles.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Status != courseModels.CourseStatusPublished {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course is not open for enrollment!", nil)
	}

	// Reject duplicates; a cancelled enrollment does not block re-enrolling
	var existingEnrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND status <> ? AND is_deleted = ?",
			userID, courseID, courseModels.EnrollmentStatusCancelled, false).
		First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	// Free courses skip the payment flow entirely
	if course.IsFree() {
		now := time.Now()
		enrollment := courseModels.Enrollment{
			UserID:     userID,
			CourseID:   uint(courseID),
			Status:     courseModels.EnrollmentStatusActive,
			EnrolledAt: &now,
		}
		if err := database.Database.Db.Create(&enrollment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", fiber.Map{
			"enrollment": enrollment,
		})
	}

	currency := course.Currency
	if currency == "" {
		currency = config.AppConfig.DefaultCurrency
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: uint(courseID),
		Status:   courseModels.EnrollmentStatusPending,
	}
	payment := models.PaymentRecord{
		UserID:    userID,
		CourseID:  uint(courseID),
		Amount:    course.Price,
		Currency:  currency,
		Status:    models.PaymentStatusPending,
		Reference: utils.GeneratePaymentReference(),
		Provider:  "lenco",
	}
	plan := models.PaymentPlan{
		UserID:        userID,
		CourseID:      uint(courseID),
		TotalFee:      course.Price,
		Balance:       course.Price,
		PaymentStatus: models.PlanStatusUnpaid,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	payment.EnrollmentID = enrollment.ID
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create payment record!", nil)
	}
	plan.EnrollmentID = enrollment.ID
	if err := tx.Create(&plan).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create payment plan!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment reserved. Complete payment to activate.", fiber.Map{
		"enrollment":   enrollment,
		"payment":      payment,
		"payment_plan": plan,
	})
}

// GetEnrollments lists the authenticated user's enrollments
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
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

	db := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Preload("Course")

	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	response := map[string]interface{}{
		"enrollments": enrollments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}

// CancelEnrollment soft-cancels a pending or active enrollment
func CancelEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("id = ? AND user_id = ? AND is_deleted = ?", enrollmentID, userID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.Status == courseModels.EnrollmentStatusCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Completed enrollments cannot be cancelled!", nil)
	}
	if enrollment.Status == courseModels.EnrollmentStatusCancelled {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Enrollment is already cancelled!", nil)
	}

	enrollment.Status = courseModels.EnrollmentStatusCancelled
	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cancel enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment cancelled.", enrollment)
}
