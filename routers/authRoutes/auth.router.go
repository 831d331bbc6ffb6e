package authRoutes

import (
	authControllers "github.com/michaelsiame/edutrack-lms-sub004/controllers/auth"
	"github.com/michaelsiame/edutrack-lms-sub004/middleware"
	authValidators "github.com/michaelsiame/edutrack-lms-sub004/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.GetProfile)
	authGroup.Put("/change/password", middleware.JWTMiddleware, authValidators.ChangePassword(), authControllers.ChangePassword)
}
