package paymentRoutes

import (
	paymentControllers "github.com/michaelsiame/edutrack-lms-sub004/controllers/payment"
	"github.com/michaelsiame/edutrack-lms-sub004/middleware"
	paymentValidators "github.com/michaelsiame/edutrack-lms-sub004/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	// Gateway callbacks carry their own signature auth, not a user token
	paymentGroup.Post("/webhook/lenco", paymentControllers.LencoWebhook)

	paymentGroup.Post("/:id/initiate", middleware.JWTMiddleware, paymentValidators.Initiate(), paymentControllers.InitiatePayment)
	paymentGroup.Get("/history", middleware.JWTMiddleware, paymentControllers.GetPaymentHistory)
	paymentGroup.Get("/plan/:enrollment_id", middleware.JWTMiddleware, paymentValidators.EnrollmentID(), paymentControllers.GetPaymentPlan)
	paymentGroup.Get("/:id/status", middleware.JWTMiddleware, paymentValidators.PaymentID(), paymentControllers.GetPaymentStatus)
}
