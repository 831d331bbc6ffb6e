package courseRoutes

import (
	controllers "github.com/michaelsiame/edutrack-lms-sub004/controllers/course"
	"github.com/michaelsiame/edutrack-lms-sub004/middleware"
	validators "github.com/michaelsiame/edutrack-lms-sub004/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	// Course CRUD
	courseGroup := adminGroup.Group("/course")
	courseGroup.Post("/create", validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	courseGroup.Get("/list", controllers.AdminGetAllCourses)
	courseGroup.Put("/:id", validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	courseGroup.Delete("/:id", validators.CourseID(), controllers.AdminDeleteCourse)
	courseGroup.Post("/:id/publish", validators.CourseID(), controllers.AdminPublishCourse)

	// Module and content management
	courseGroup.Post("/:id/module", validators.CreateModule(), controllers.AdminCreateModule)
	courseGroup.Post("/:course_id/module/:module_id/content", validators.CreateContentAdmin(), controllers.AdminCreateContent)

	contentGroup := adminGroup.Group("/content")
	contentGroup.Post("/:content_id/publish", validators.ContentID(), controllers.AdminPublishContent)
	contentGroup.Post("/:content_id/mcq", validators.AddMCQOption(), controllers.AdminAddMCQOption)

	// Enrollment tracking
	courseGroup.Get("/:id/enrollments", validators.CourseID(), controllers.AdminGetCourseEnrollments)

	// Certificate management
	certGroup := adminGroup.Group("/certificate")
	certGroup.Post("/:request_id/approve", validators.CertificateRequestID(), controllers.AdminApproveCertificate)
	certGroup.Post("/:request_id/reject", validators.CertificateRequestID(), controllers.AdminRejectCertificate)

	// Dashboards
	dashGroup := adminGroup.Group("/dashboard")
	dashGroup.Get("/stats", controllers.AdminDashboardStats)
	dashGroup.Get("/finance", controllers.AdminFinanceStats)
}
