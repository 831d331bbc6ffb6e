package controllers

import (
	"time"

	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/middleware"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"
	"github.com/michaelsiame/edutrack-lms-sub004/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestCertificate lets a student request a certificate for a completed
// enrollment
func RequestCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	if enrollment.Status != courseModels.EnrollmentStatusCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Complete the course before requesting a certificate!", nil)
	}

	var existing courseModels.CertificateRequest
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND status <> ? AND is_deleted = ?", userID, courseID, "REJECTED", false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already requested!", existing)
	}

	request := courseModels.CertificateRequest{
		UserID:       userID,
		CourseID:     uint(courseID),
		EnrollmentID: enrollment.ID,
		Status:       "PENDING",
	}
	if err := database.Database.Db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to request certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate requested!", request)
}

// GetUserCertificates lists the caller's certificate requests
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var requests []courseModels.CertificateRequest
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", requests)
}

// AdminApproveCertificate issues a certificate number for a pending request
func AdminApproveCertificate(c *fiber.Ctx) error {
	requestID := c.Locals("requestID").(int)

	var request courseModels.CertificateRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}

	if request.Status != "PENDING" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already resolved!", nil)
	}

	now := time.Now()
	request.Status = "ISSUED"
	request.CertificateNumber = utils.GenerateCertificateNumber(request.CourseID, request.UserID)
	request.IssuedAt = &now

	if err := database.Database.Db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve certificate!", nil)
	}

	var student models.User
	var course courseModels.Course
	if database.Database.Db.Where("id = ?", request.UserID).First(&student).Error == nil &&
		database.Database.Db.Where("id = ?", request.CourseID).First(&course).Error == nil {
		utils.SendCertificateIssuedEmail(student.Email, student.Name, course.Title, request.CertificateNumber)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate issued!", request)
}

// AdminRejectCertificate rejects a pending request with a reason
func AdminRejectCertificate(c *fiber.Ctx) error {
	requestID := c.Locals("requestID").(int)

	var request courseModels.CertificateRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}

	if request.Status != "PENDING" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already resolved!", nil)
	}

	reqData := new(struct {
		Reason string `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	request.Status = "REJECTED"
	request.RejectionReason = reqData.Reason

	if err := database.Database.Db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request rejected.", request)
}
