package courseRoutes

import (
	controllers "github.com/michaelsiame/edutrack-lms-sub004/controllers/course"
	"github.com/michaelsiame/edutrack-lms-sub004/middleware"
	validators "github.com/michaelsiame/edutrack-lms-sub004/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course", middleware.JWTMiddleware)

	// Catalog
	userGroup.Get("/list", controllers.GetAllCourses)
	userGroup.Get("/:id", validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", validators.CourseID(), controllers.EnrollInCourse)

	// Content viewing (for enrolled users)
	userGroup.Get("/:course_id/module/:module_id/content", validators.CourseAndModuleID(), controllers.GetModuleContent)

	// Content completion and quizzes
	userGroup.Post("/:course_id/content/:content_id/complete", validators.CourseAndContentID(), controllers.MarkContentComplete)
	userGroup.Post("/:course_id/content/:content_id/mcq/submit", validators.CourseAndContentID(), controllers.SubmitMCQAnswer)

	// Progress tracking
	userGroup.Get("/:id/progress", validators.CourseID(), controllers.GetUserProgress)

	// Certificate request
	userGroup.Post("/:id/certificate/request", validators.CourseID(), controllers.RequestCertificate)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user", middleware.JWTMiddleware)
	userEnrollGroup.Get("/enrollments", controllers.GetEnrollments)
	userEnrollGroup.Post("/enrollment/:id/cancel", validators.EnrollmentID(), controllers.CancelEnrollment)
	userEnrollGroup.Get("/certificates", controllers.GetUserCertificates)
}
