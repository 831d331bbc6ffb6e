package courseValidator

import (
	"strconv"
	"strings"

	"github.com/michaelsiame/edutrack-lms-sub004/middleware"

	"github.com/gofiber/fiber/v2"
)

// paramID validates a positive integer route parameter and stores it in Locals
// under localKey
func paramID(param, localKey, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params(param))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		}

		c.Locals(localKey, id)
		return c.Next()
	}
}

func CourseID() fiber.Handler {
	return paramID("id", "courseID", "Course ID")
}

func CourseAndModuleID() fiber.Handler {
	course := paramID("course_id", "courseID", "Course ID")
	module := paramID("module_id", "moduleID", "Module ID")
	return func(c *fiber.Ctx) error {
		if err := course(c); err != nil {
			return err
		}
		return module(c)
	}
}

func CourseAndContentID() fiber.Handler {
	course := paramID("course_id", "courseID", "Course ID")
	content := paramID("content_id", "contentID", "Content ID")
	return func(c *fiber.Ctx) error {
		if err := course(c); err != nil {
			return err
		}
		return content(c)
	}
}

func ContentID() fiber.Handler {
	return paramID("content_id", "contentID", "Content ID")
}

func EnrollmentID() fiber.Handler {
	return paramID("id", "enrollmentID", "Enrollment ID")
}

func CertificateRequestID() fiber.Handler {
	return paramID("request_id", "requestID", "Certificate request ID")
}

func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string  `json:"title"`
			Description  string  `json:"description"`
			Author       string  `json:"author"`
			Category     string  `json:"category"`
			Duration     int64   `json:"duration"`
			Price        float64 `json:"price"`
			Currency     string  `json:"currency"`
			ThumbnailURL string  `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}
		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourseAdmin() fiber.Handler {
	course := CourseID()
	return func(c *fiber.Ctx) error {
		if err := course(c); err != nil {
			return err
		}

		reqData := new(struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			Author       string   `json:"author"`
			Category     string   `json:"category"`
			Duration     int64    `json:"duration"`
			Price        *float64 `json:"price"`
			Currency     string   `json:"currency"`
			ThumbnailURL string   `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Price != nil && *reqData.Price < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"price": "Price cannot be negative!"})
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

func CreateModule() fiber.Handler {
	course := CourseID()
	return func(c *fiber.Ctx) error {
		if err := course(c); err != nil {
			return err
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			OrderIndex  int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Title) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"title": "Title is required!"})
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func CreateContentAdmin() fiber.Handler {
	ids := CourseAndModuleID()
	return func(c *fiber.Ctx) error {
		if err := ids(c); err != nil {
			return err
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ContentType string `json:"content_type"`
			ContentURL  string `json:"content_url"`
			Body        string `json:"body"`
			OrderIndex  int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		switch reqData.ContentType {
		case "VIDEO", "ARTICLE", "MCQ":
		default:
			errors["content_type"] = "Content type must be VIDEO, ARTICLE or MCQ!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

func AddMCQOption() fiber.Handler {
	content := ContentID()
	return func(c *fiber.Ctx) error {
		if err := content(c); err != nil {
			return err
		}

		reqData := new(struct {
			OptionText string `json:"option_text"`
			IsCorrect  bool   `json:"is_correct"`
			OrderIndex int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.OptionText) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"option_text": "Option text is required!"})
		}

		c.Locals("validatedMCQOption", reqData)
		return c.Next()
	}
}
