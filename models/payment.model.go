package models

import (
	"errors"
	"time"

	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"

	"gorm.io/gorm"
)

// PaymentStatus defines the status of a payment record
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// ErrAlreadyFinalized is returned when a terminal transition is attempted on a
// payment record that already left PENDING. Transitions are monotonic: a
// completed or failed payment is never overwritten.
var ErrAlreadyFinalized = errors.New("payment record already finalized")

// PaymentRecord represents a single monetary transaction tied to a user,
// course and enrollment. Amount is immutable after creation.
type PaymentRecord struct {
	gorm.Model
	UserID       uint          `gorm:"not null;index" json:"userId"`
	CourseID     uint          `gorm:"not null;index" json:"courseId"`
	EnrollmentID uint          `gorm:"not null;index" json:"enrollmentId"`
	Amount       float64       `gorm:"not null" json:"amount"`
	Currency     string        `gorm:"type:varchar(10);not null" json:"currency"`
	Status       PaymentStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`

	// Reference is our identifier, sent to the gateway at initialization and
	// echoed back in webhooks and status polls.
	Reference string `gorm:"type:varchar(100);uniqueIndex" json:"reference"`

	Provider           string     `gorm:"type:varchar(50)" json:"provider"` // lenco, mtn, airtel, zamtel
	ProviderReference  string     `gorm:"type:varchar(100);index" json:"providerReference"`
	PaymentMethod      string     `gorm:"type:varchar(50)" json:"paymentMethod"` // mobile-money, virtual-account
	PaymentDate        *time.Time `json:"paymentDate"`
	FailureReason      string     `gorm:"type:text" json:"failureReason"`
	ProviderRawPayload string     `gorm:"type:text" json:"-"` // last raw gateway response

	IsDeleted bool `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}

// MarkSuccessful transitions a pending record to COMPLETED. The UPDATE is
// guarded on status = PENDING so concurrent webhook retries and status polls
// cannot double-complete; losers get ErrAlreadyFinalized.
func (p *PaymentRecord) MarkSuccessful(db *gorm.DB, providerRef string) error {
	now := time.Now()

	res := db.Model(&PaymentRecord{}).
		Where("id = ? AND status = ?", p.ID, PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":             PaymentStatusCompleted,
			"provider_reference": providerRef,
			"payment_date":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyFinalized
	}

	p.Status = PaymentStatusCompleted
	p.ProviderReference = providerRef
	p.PaymentDate = &now
	return nil
}

// MarkFailed transitions a pending record to FAILED. Does not touch the
// payment plan.
func (p *PaymentRecord) MarkFailed(db *gorm.DB, reason string) error {
	res := db.Model(&PaymentRecord{}).
		Where("id = ? AND status = ?", p.ID, PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         PaymentStatusFailed,
			"failure_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyFinalized
	}

	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	return nil
}

// SettlePayment completes a pending payment and applies its side effects in
// one transaction: the enrollment is activated and the payment plan balance
// decremented. A duplicate delivery gets ErrAlreadyFinalized from the guarded
// update and rolls back having changed nothing, so exactly one activation and
// one balance update happen per payment.
func SettlePayment(db *gorm.DB, payment *PaymentRecord, providerRef string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := payment.MarkSuccessful(tx, providerRef); err != nil {
			return err
		}

		var enrollment courseModels.Enrollment
		if err := tx.Where("id = ? AND is_deleted = false", payment.EnrollmentID).First(&enrollment).Error; err != nil {
			return err
		}
		if err := enrollment.Activate(tx); err != nil {
			return err
		}

		var plan PaymentPlan
		if err := tx.Where("enrollment_id = ? AND is_deleted = false", payment.EnrollmentID).First(&plan).Error; err != nil {
			return err
		}
		return plan.RecordPayment(tx, payment.Amount)
	})
}

// FindPaymentByReference looks up a payment record by our internal reference
func FindPaymentByReference(db *gorm.DB, reference string) (*PaymentRecord, error) {
	var payment PaymentRecord
	if err := db.Where("reference = ? AND is_deleted = false", reference).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}
