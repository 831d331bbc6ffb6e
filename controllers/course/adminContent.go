package controllers

import (
	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/middleware"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateModule adds an ordered module to a course
func AdminCreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedModule").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		OrderIndex  int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module := courseModels.Module{
		CourseID:    uint(courseID),
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// AdminCreateContent adds a content item to a module
func AdminCreateContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedContent").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ContentType string `json:"content_type"`
		ContentURL  string `json:"content_url"`
		Body        string `json:"body"`
		OrderIndex  int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	content := courseModels.CourseContent{
		CourseID:    uint(courseID),
		ModuleID:    uint(moduleID),
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		ContentURL:  reqData.ContentURL,
		Body:        reqData.Body,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully!", content)
}

// AdminPublishContent toggles a content item's published flag
func AdminPublishContent(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(int)

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	reqData := new(struct {
		IsPublished bool `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	content.IsPublished = reqData.IsPublished
	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content updated!", content)
}

// AdminAddMCQOption adds an answer option to an MCQ content item
func AdminAddMCQOption(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(int)

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}
	if content.ContentType != "MCQ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an MCQ!", nil)
	}

	reqData, ok := c.Locals("validatedMCQOption").(*struct {
		OptionText string `json:"option_text"`
		IsCorrect  bool   `json:"is_correct"`
		OrderIndex int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	option := courseModels.MCQOption{
		ContentID:  uint(contentID),
		OptionText: reqData.OptionText,
		IsCorrect:  reqData.IsCorrect,
		OrderIndex: reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Option added successfully!", option)
}
