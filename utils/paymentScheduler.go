package utils

import (
	"errors"
	"log"
	"time"

	"github.com/michaelsiame/edutrack-lms-sub004/database"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"

	"github.com/robfig/cron/v3"
)

// InitializePaymentScheduler sets up the payment reconciliation jobs
func InitializePaymentScheduler() {
	log.Println("[PAYMENT-SCHEDULER] Initializing payment scheduler...")

	c := cron.New()

	// Poll the gateway for pending payments every 10 minutes. Webhooks are the
	// primary settlement path; this catches deliveries the provider dropped.
	c.AddFunc("*/10 * * * *", func() {
		ReconcilePendingPayments()
	})

	// Expire abandoned payments daily at 01:00
	c.AddFunc("0 1 * * *", func() {
		ExpireStalePayments()
	})

	c.Start()
	log.Println("[PAYMENT-SCHEDULER] Payment scheduler started - reconcile every 10m, expiry daily at 01:00")
}

// ReconcilePendingPayments polls Lenco for every initialized payment still
// PENDING and applies any terminal status it finds
func ReconcilePendingPayments() {
	db := database.Database.Db
	cutoff := time.Now().Add(-5 * time.Minute)

	var pending []models.PaymentRecord
	if err := db.
		Where("status = ? AND provider_reference <> '' AND is_deleted = false", models.PaymentStatusPending).
		Where("updated_at < ?", cutoff).
		Find(&pending).Error; err != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error fetching pending payments: %v", err)
		return
	}

	if len(pending) == 0 {
		return
	}
	log.Printf("[PAYMENT-SCHEDULER] Reconciling %d pending payments", len(pending))

	for i := range pending {
		payment := &pending[i]

		status, err := GetCollectionStatus(payment.Reference)
		if err != nil {
			log.Printf("[PAYMENT-SCHEDULER] Status poll failed for %s: %v", payment.Reference, err)
			continue
		}

		switch NormalizeProviderStatus(status.Status) {
		case GatewayStatusSuccess:
			if err := models.SettlePayment(db, payment, status.LencoReference); err != nil {
				if errors.Is(err, models.ErrAlreadyFinalized) {
					continue // webhook beat us to it
				}
				log.Printf("[PAYMENT-SCHEDULER] Settlement failed for %s: %v", payment.Reference, err)
				continue
			}
			log.Printf("[PAYMENT-SCHEDULER] Settled payment %s via status poll", payment.Reference)
			notifyPaymentSettled(payment)
		case GatewayStatusFailed:
			if err := payment.MarkFailed(db, "provider reported "+status.Status); err != nil && !errors.Is(err, models.ErrAlreadyFinalized) {
				log.Printf("[PAYMENT-SCHEDULER] Failed to mark %s failed: %v", payment.Reference, err)
			}
		}
	}
}

// ExpireStalePayments fails PENDING payments that were never settled within a
// week, so their enrollments stop showing as awaiting payment
func ExpireStalePayments() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -7)

	var stale []models.PaymentRecord
	if err := db.
		Where("status = ? AND is_deleted = false AND created_at < ?", models.PaymentStatusPending, cutoff).
		Find(&stale).Error; err != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error fetching stale payments: %v", err)
		return
	}

	for i := range stale {
		if err := stale[i].MarkFailed(db, "payment window expired"); err != nil && !errors.Is(err, models.ErrAlreadyFinalized) {
			log.Printf("[PAYMENT-SCHEDULER] Failed to expire payment %s: %v", stale[i].Reference, err)
		}
	}

	if len(stale) > 0 {
		log.Printf("[PAYMENT-SCHEDULER] Expired %d stale payments", len(stale))
	}
}

// notifyPaymentSettled emails the student once settlement lands
func notifyPaymentSettled(payment *models.PaymentRecord) {
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ?", payment.UserID).First(&user).Error; err != nil {
		return
	}
	var course courseModels.Course
	if err := db.Where("id = ?", payment.CourseID).First(&course).Error; err != nil {
		return
	}

	SendEnrollmentActivatedEmail(user.Email, user.Name, course.Title, payment.Amount, payment.Currency)
}
