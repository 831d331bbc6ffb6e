package controllers

import (
	"time"

	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/middleware"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// AdminDashboardStats aggregates enrollment and revenue numbers for the admin
// dashboard
func AdminDashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)

	var publishedCourses int64
	db.Model(&courseModels.Course{}).
		Where("status = ? AND is_deleted = ?", courseModels.CourseStatusPublished, false).
		Count(&publishedCourses)

	var totalStudents int64
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", "STUDENT", false).Count(&totalStudents)

	// Enrollment counts by status
	enrollmentStats := fiber.Map{}
	for _, status := range []courseModels.EnrollmentStatus{
		courseModels.EnrollmentStatusPending,
		courseModels.EnrollmentStatusActive,
		courseModels.EnrollmentStatusCompleted,
		courseModels.EnrollmentStatusCancelled,
	} {
		var count int64
		db.Model(&courseModels.Enrollment{}).Where("status = ? AND is_deleted = ?", status, false).Count(&count)
		enrollmentStats[string(status)] = count
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched!", fiber.Map{
		"total_courses":     totalCourses,
		"published_courses": publishedCourses,
		"total_students":    totalStudents,
		"enrollments":       enrollmentStats,
	})
}

// AdminFinanceStats aggregates payment figures: collected revenue across
// today/month/all-time windows, pending volume and outstanding plan balances
func AdminFinanceStats(c *fiber.Ctx) error {
	db := database.Database.Db

	today := now.BeginningOfDay()
	monthStart := now.BeginningOfMonth()

	type sumResult struct {
		Total float64
	}

	revenue := func(since *time.Time) float64 {
		var res sumResult
		q := db.Model(&models.PaymentRecord{}).
			Select("COALESCE(SUM(amount), 0) as total").
			Where("status = ? AND is_deleted = ?", models.PaymentStatusCompleted, false)
		if since != nil {
			q = q.Where("payment_date >= ?", *since)
		}
		q.Scan(&res)
		return res.Total
	}

	var pendingCount int64
	var pendingValue sumResult
	db.Model(&models.PaymentRecord{}).
		Where("status = ? AND is_deleted = ?", models.PaymentStatusPending, false).
		Count(&pendingCount)
	db.Model(&models.PaymentRecord{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status = ? AND is_deleted = ?", models.PaymentStatusPending, false).
		Scan(&pendingValue)

	var outstanding sumResult
	db.Model(&models.PaymentPlan{}).
		Select("COALESCE(SUM(balance), 0) as total").
		Where("payment_status <> ? AND is_deleted = ?", models.PlanStatusCompleted, false).
		Scan(&outstanding)

	var failedCount int64
	db.Model(&models.PaymentRecord{}).
		Where("status = ? AND is_deleted = ?", models.PaymentStatusFailed, false).
		Count(&failedCount)

	// Top courses by active enrollment
	type topCourse struct {
		CourseID uint   `json:"course_id"`
		Title    string `json:"title"`
		Count    int64  `json:"count"`
	}
	var topCourses []topCourse
	db.Model(&courseModels.Enrollment{}).
		Select("enrollments.course_id, courses.title, COUNT(*) as count").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.status IN ? AND enrollments.is_deleted = ?",
			[]courseModels.EnrollmentStatus{courseModels.EnrollmentStatusActive, courseModels.EnrollmentStatusCompleted}, false).
		Group("enrollments.course_id, courses.title").
		Order("count desc").
		Limit(5).
		Scan(&topCourses)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Finance stats fetched!", fiber.Map{
		"revenue": fiber.Map{
			"today":      revenue(&today),
			"this_month": revenue(&monthStart),
			"all_time":   revenue(nil),
		},
		"pending_payments": fiber.Map{
			"count": pendingCount,
			"value": pendingValue.Total,
		},
		"failed_payments":     failedCount,
		"outstanding_balance": outstanding.Total,
		"top_courses":         topCourses,
	})
}
