package paymentValidator

import (
	"strconv"
	"strings"

	"github.com/michaelsiame/edutrack-lms-sub004/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// PaymentID validates the :id route parameter
func PaymentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Payment ID!", nil)
		}

		c.Locals("paymentID", id)
		return c.Next()
	}
}

// EnrollmentID validates the :enrollment_id route parameter
func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("enrollment_id"))

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", id)
		return c.Next()
	}
}

// Initiate validates the payer details for opening a gateway collection
func Initiate() fiber.Handler {
	payment := PaymentID()
	return func(c *fiber.Ctx) error {
		if err := payment(c); err != nil {
			return err
		}

		reqData := new(struct {
			Phone    string `json:"phone" validate:"required,min=9,max=15"`
			Operator string `json:"operator" validate:"required,oneof=mtn airtel zamtel"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Phone = strings.TrimSpace(reqData.Phone)
		reqData.Operator = strings.ToLower(strings.TrimSpace(reqData.Operator))

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Phone":
					errors["phone"] = "A valid phone number is required!"
				case "Operator":
					errors["operator"] = "Operator must be mtn, airtel or zamtel!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedInitiate", reqData)
		return c.Next()
	}
}
