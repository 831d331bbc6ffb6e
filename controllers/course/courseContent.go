package controllers

import (
	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/middleware"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"

	"github.com/gofiber/fiber/v2"
)

// requireActiveEnrollment loads the caller's non-pending enrollment for a
// course. Pending (unpaid) enrollments do not unlock content.
func requireActiveEnrollment(userID uint, courseID int) (*courseModels.Enrollment, bool) {
	var enrollment courseModels.Enrollment
	err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND status IN ? AND is_deleted = ?",
			userID, courseID,
			[]courseModels.EnrollmentStatus{courseModels.EnrollmentStatusActive, courseModels.EnrollmentStatusCompleted},
			false).
		First(&enrollment).Error
	if err != nil {
		return nil, false
	}
	return &enrollment, true
}

// GetModuleContent lists published content of a module for an enrolled user
func GetModuleContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	if _, enrolled := requireActiveEnrollment(userID, courseID); !enrolled {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var contents []courseModels.CourseContent
	if err := database.Database.Db.
		Where("module_id = ? AND is_deleted = ? AND is_published = ?", moduleID, false, true).
		Order("order_index asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch content!", nil)
	}

	type ContentWithOptions struct {
		courseModels.CourseContent
		MCQOptions  []courseModels.MCQOption `json:"mcq_options,omitempty"`
		IsCompleted bool                     `json:"is_completed"`
	}

	result := make([]ContentWithOptions, len(contents))
	for i, content := range contents {
		result[i] = ContentWithOptions{CourseContent: content}

		var completion courseModels.ContentCompletion
		if err := database.Database.Db.
			Where("user_id = ? AND course_content_id = ? AND is_deleted = ?", userID, content.ID, false).
			First(&completion).Error; err == nil {
			result[i].IsCompleted = true
		}

		if content.ContentType == "MCQ" {
			var options []courseModels.MCQOption
			database.Database.Db.Where("content_id = ? AND is_deleted = ?", content.ID, false).Order("order_index asc").Find(&options)
			// Never leak the answer key to students
			for j := range options {
				options[j].IsCorrect = false
			}
			result[i].MCQOptions = options
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module content fetched successfully!", fiber.Map{
		"module":   module,
		"contents": result,
	})
}

// MarkContentComplete records completion of a non-quiz content item and
// refreshes enrollment progress
func MarkContentComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	if _, enrolled := requireActiveEnrollment(userID, courseID); !enrolled {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var content courseModels.CourseContent
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", contentID, courseID, false, true).
		First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	if content.ContentType == "MCQ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz content is completed by submitting answers!", nil)
	}

	var existing courseModels.ContentCompletion
	if err := database.Database.Db.
		Where("user_id = ? AND course_content_id = ? AND is_deleted = ?", userID, contentID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Content already marked complete.", existing)
	}

	completion := courseModels.ContentCompletion{
		UserID:          userID,
		CourseID:        uint(courseID),
		CourseContentID: uint(contentID),
		Status:          "COMPLETED",
	}
	if err := database.Database.Db.Create(&completion).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark content complete!", nil)
	}

	updateEnrollmentProgress(userID, uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content marked complete!", completion)
}
