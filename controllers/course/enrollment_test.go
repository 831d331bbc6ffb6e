package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/michaelsiame/edutrack-lms-sub004/config"
	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"
	courseValidators "github.com/michaelsiame/edutrack-lms-sub004/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// authAs stands in for the JWT middleware in handler tests
func authAs(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	}
}

func setupEnrollmentTest(t *testing.T) (*gorm.DB, *models.User) {
	t.Helper()

	config.AppConfig = &config.Config{DefaultCurrency: "ZMW"}

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	user := &models.User{Name: "Bwalya Zulu", Email: t.Name() + "@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	return db, user
}

func enrollApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Post("/course/:id/enroll", authAs(userID), courseValidators.CourseID(), EnrollInCourse)
	return app
}

func postEnroll(t *testing.T, app *fiber.App, courseID uint) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/course/%d/enroll", courseID), strings.NewReader(""))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func envelopeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()

	var envelope struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Message
}

func TestEnrollFreeCourseActivatesImmediately(t *testing.T) {
	db, user := setupEnrollmentTest(t)

	course := courseModels.Course{Title: "Free Starter", Price: 0, Status: courseModels.CourseStatusPublished}
	require.NoError(t, db.Create(&course).Error)

	resp := postEnroll(t, enrollApp(user.ID), course.ID)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentStatusActive, enrollment.Status)
	assert.NotNil(t, enrollment.EnrolledAt)

	// No payment artifacts for a free course.
	var paymentCount int64
	db.Model(&models.PaymentRecord{}).Where("enrollment_id = ?", enrollment.ID).Count(&paymentCount)
	assert.Equal(t, int64(0), paymentCount)
}

func TestEnrollPaidCourseCreatesPendingSettlement(t *testing.T) {
	db, user := setupEnrollmentTest(t)

	course := courseModels.Course{Title: "Paid Course", Price: 350, Currency: "ZMW", Status: courseModels.CourseStatusPublished}
	require.NoError(t, db.Create(&course).Error)

	resp := postEnroll(t, enrollApp(user.ID), course.ID)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentStatusPending, enrollment.Status)
	assert.Nil(t, enrollment.EnrolledAt)

	var payment models.PaymentRecord
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, float64(350), payment.Amount)
	assert.Equal(t, "ZMW", payment.Currency)
	assert.Equal(t, "lenco", payment.Provider)
	assert.True(t, strings.HasPrefix(payment.Reference, "EDU-"))

	var plan models.PaymentPlan
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).First(&plan).Error)
	assert.Equal(t, float64(350), plan.TotalFee)
	assert.Equal(t, float64(350), plan.Balance)
	assert.Equal(t, float64(0), plan.TotalPaid)
	assert.Equal(t, models.PlanStatusUnpaid, plan.PaymentStatus)
}

func TestEnrollDuplicateIsRejected(t *testing.T) {
	db, user := setupEnrollmentTest(t)

	course := courseModels.Course{Title: "Popular Course", Price: 100, Status: courseModels.CourseStatusPublished}
	require.NoError(t, db.Create(&course).Error)

	app := enrollApp(user.ID)
	resp := postEnroll(t, app, course.ID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = postEnroll(t, app, course.ID)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User already enrolled in this course!", envelopeMessage(t, resp))

	// A pending enrollment blocks re-enrolling just like an active one.
	var count int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnrollAgainAfterCancellation(t *testing.T) {
	db, user := setupEnrollmentTest(t)

	course := courseModels.Course{Title: "Second Chance", Price: 0, Status: courseModels.CourseStatusPublished}
	require.NoError(t, db.Create(&course).Error)

	cancelled := courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Status:   courseModels.EnrollmentStatusCancelled,
	}
	require.NoError(t, db.Create(&cancelled).Error)

	resp := postEnroll(t, enrollApp(user.ID), course.ID)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestEnrollUnpublishedCourseIsRejected(t *testing.T) {
	db, user := setupEnrollmentTest(t)

	course := courseModels.Course{Title: "Draft Course", Price: 100, Status: courseModels.CourseStatusDraft}
	require.NoError(t, db.Create(&course).Error)

	resp := postEnroll(t, enrollApp(user.ID), course.ID)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Course is not open for enrollment!", envelopeMessage(t, resp))
}

func TestEnrollMissingCourseReturnsNotFound(t *testing.T) {
	_, user := setupEnrollmentTest(t)

	resp := postEnroll(t, enrollApp(user.ID), 9999)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEnrollmentUniquePerUserAndCourse(t *testing.T) {
	db, user := setupEnrollmentTest(t)

	course := courseModels.Course{Title: "Oversubscribed", Price: 0, Status: courseModels.CourseStatusPublished}
	require.NoError(t, db.Create(&course).Error)

	first := courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Status:   courseModels.EnrollmentStatusActive,
	}
	require.NoError(t, db.Create(&first).Error)

	// The partial unique index stops a second live row even when two requests
	// race past the duplicate check.
	dup := courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Status:   courseModels.EnrollmentStatusPending,
	}
	assert.Error(t, db.Create(&dup).Error)

	// A cancelled row does not count against the index.
	require.NoError(t, db.Model(&first).Update("status", courseModels.EnrollmentStatusCancelled).Error)

	again := courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Status:   courseModels.EnrollmentStatusPending,
	}
	assert.NoError(t, db.Create(&again).Error)
}

func TestCancelEnrollmentGuards(t *testing.T) {
	db, user := setupEnrollmentTest(t)

	course := courseModels.Course{Title: "Cancelable", Price: 0, Status: courseModels.CourseStatusPublished}
	require.NoError(t, db.Create(&course).Error)

	enrollment := courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Status:   courseModels.EnrollmentStatusActive,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	app := fiber.New()
	app.Post("/user/enrollment/:id/cancel", authAs(user.ID), courseValidators.EnrollmentID(), CancelEnrollment)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/user/enrollment/%d/cancel", enrollment.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored courseModels.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollmentStatusCancelled, stored.Status)

	// Cancelling twice is a conflict.
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/user/enrollment/%d/cancel", enrollment.ID), nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
