package models_test

import (
	"testing"
	"time"

	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	return db
}

// seedSettlement creates a pending enrollment with its payment record and
// unpaid plan, the state EnrollInCourse leaves a paid course in.
func seedSettlement(t *testing.T, db *gorm.DB, fee float64) (*models.PaymentRecord, *courseModels.Enrollment, *models.PaymentPlan) {
	t.Helper()

	enrollment := &courseModels.Enrollment{
		UserID:   1,
		CourseID: 1,
		Status:   courseModels.EnrollmentStatusPending,
	}
	require.NoError(t, db.Create(enrollment).Error)

	payment := &models.PaymentRecord{
		UserID:       1,
		CourseID:     1,
		EnrollmentID: enrollment.ID,
		Amount:       fee,
		Currency:     "ZMW",
		Status:       models.PaymentStatusPending,
		Reference:    "EDU-TEST-" + t.Name(),
		Provider:     "lenco",
	}
	require.NoError(t, db.Create(payment).Error)

	plan := &models.PaymentPlan{
		EnrollmentID:  enrollment.ID,
		UserID:        1,
		CourseID:      1,
		TotalFee:      fee,
		Balance:       fee,
		PaymentStatus: models.PlanStatusUnpaid,
	}
	require.NoError(t, db.Create(plan).Error)

	return payment, enrollment, plan
}

func TestMarkSuccessful(t *testing.T) {
	db := setupTestDB(t)
	payment, _, _ := seedSettlement(t, db, 100)

	require.NoError(t, payment.MarkSuccessful(db, "lenco-ref-1"))

	var stored models.PaymentRecord
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusCompleted, stored.Status)
	assert.Equal(t, "lenco-ref-1", stored.ProviderReference)
	assert.NotNil(t, stored.PaymentDate)
}

func TestMarkSuccessfulTwiceReturnsAlreadyFinalized(t *testing.T) {
	db := setupTestDB(t)
	payment, _, _ := seedSettlement(t, db, 100)

	require.NoError(t, payment.MarkSuccessful(db, "lenco-ref-1"))

	err := payment.MarkSuccessful(db, "lenco-ref-2")
	assert.ErrorIs(t, err, models.ErrAlreadyFinalized)

	// The original provider reference must survive the retry.
	var stored models.PaymentRecord
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, "lenco-ref-1", stored.ProviderReference)
}

func TestMarkFailedAfterCompletedIsRejected(t *testing.T) {
	db := setupTestDB(t)
	payment, _, _ := seedSettlement(t, db, 100)

	require.NoError(t, payment.MarkSuccessful(db, "lenco-ref-1"))
	assert.ErrorIs(t, payment.MarkFailed(db, "late failure"), models.ErrAlreadyFinalized)

	var stored models.PaymentRecord
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusCompleted, stored.Status)
}

func TestMarkSuccessfulAfterFailedIsRejected(t *testing.T) {
	db := setupTestDB(t)
	payment, _, _ := seedSettlement(t, db, 100)

	require.NoError(t, payment.MarkFailed(db, "declined by operator"))
	assert.ErrorIs(t, payment.MarkSuccessful(db, "lenco-ref-1"), models.ErrAlreadyFinalized)

	var stored models.PaymentRecord
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, stored.Status)
	assert.Equal(t, "declined by operator", stored.FailureReason)
}

func TestSettlePaymentActivatesEnrollmentAndSettlesPlan(t *testing.T) {
	db := setupTestDB(t)
	payment, enrollment, plan := seedSettlement(t, db, 150)

	require.NoError(t, models.SettlePayment(db, payment, "lenco-ref-9"))

	var storedEnrollment courseModels.Enrollment
	require.NoError(t, db.First(&storedEnrollment, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollmentStatusActive, storedEnrollment.Status)
	assert.NotNil(t, storedEnrollment.EnrolledAt)

	var storedPlan models.PaymentPlan
	require.NoError(t, db.First(&storedPlan, plan.ID).Error)
	assert.Equal(t, float64(150), storedPlan.TotalPaid)
	assert.Equal(t, float64(0), storedPlan.Balance)
	assert.Equal(t, models.PlanStatusCompleted, storedPlan.PaymentStatus)
}

func TestSettlePaymentDuplicateDeliveryChangesNothing(t *testing.T) {
	db := setupTestDB(t)
	payment, _, plan := seedSettlement(t, db, 100)

	require.NoError(t, models.SettlePayment(db, payment, "lenco-ref-1"))

	// Second delivery for the same payment, as a webhook retry would present it.
	retry, err := models.FindPaymentByReference(db, payment.Reference)
	require.NoError(t, err)
	assert.ErrorIs(t, models.SettlePayment(db, retry, "lenco-ref-1"), models.ErrAlreadyFinalized)

	var storedPlan models.PaymentPlan
	require.NoError(t, db.First(&storedPlan, plan.ID).Error)
	assert.Equal(t, float64(100), storedPlan.TotalPaid)
	assert.Equal(t, float64(0), storedPlan.Balance)
}

func TestRecordPaymentPartialThenComplete(t *testing.T) {
	db := setupTestDB(t)
	_, _, plan := seedSettlement(t, db, 100)

	require.NoError(t, plan.RecordPayment(db, 60))
	assert.Equal(t, float64(60), plan.TotalPaid)
	assert.Equal(t, float64(40), plan.Balance)
	assert.Equal(t, models.PlanStatusPartial, plan.PaymentStatus)

	require.NoError(t, plan.RecordPayment(db, 40))
	assert.Equal(t, float64(100), plan.TotalPaid)
	assert.Equal(t, float64(0), plan.Balance)
	assert.Equal(t, models.PlanStatusCompleted, plan.PaymentStatus)
}

func TestRecordPaymentComputesFromStoredTotals(t *testing.T) {
	db := setupTestDB(t)
	_, _, plan := seedSettlement(t, db, 100)

	// A second handle on the same row, loaded before any payment lands.
	var stale models.PaymentPlan
	require.NoError(t, db.First(&stale, plan.ID).Error)

	require.NoError(t, plan.RecordPayment(db, 60))

	// Recording through the stale handle must see the stored total_paid, not
	// the handle's in-memory copy.
	require.NoError(t, stale.RecordPayment(db, 40))
	assert.Equal(t, float64(100), stale.TotalPaid)
	assert.Equal(t, float64(0), stale.Balance)
	assert.Equal(t, models.PlanStatusCompleted, stale.PaymentStatus)
}

func TestRecordPaymentOverpaymentClampsBalance(t *testing.T) {
	db := setupTestDB(t)
	_, _, plan := seedSettlement(t, db, 100)

	require.NoError(t, plan.RecordPayment(db, 150))

	assert.Equal(t, float64(150), plan.TotalPaid)
	assert.Equal(t, float64(0), plan.Balance)
	assert.Equal(t, models.PlanStatusCompleted, plan.PaymentStatus)
}

func TestEnrollmentActivateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	_, enrollment, _ := seedSettlement(t, db, 100)

	require.NoError(t, enrollment.Activate(db))
	firstEnrolledAt := enrollment.EnrolledAt
	require.NotNil(t, firstEnrolledAt)

	// A second activation is a no-op and keeps the original timestamp.
	require.NoError(t, enrollment.Activate(db))

	var stored courseModels.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollmentStatusActive, stored.Status)
	assert.WithinDuration(t, *firstEnrolledAt, *stored.EnrolledAt, time.Second)
}

func TestFindPaymentByReference(t *testing.T) {
	db := setupTestDB(t)
	payment, _, _ := seedSettlement(t, db, 100)

	found, err := models.FindPaymentByReference(db, payment.Reference)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, found.ID)

	_, err = models.FindPaymentByReference(db, "EDU-DOES-NOT-EXIST")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
