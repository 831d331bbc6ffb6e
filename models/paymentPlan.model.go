package models

import (
	"gorm.io/gorm"
)

// PlanStatus defines the settlement status of a payment plan
type PlanStatus string

const (
	PlanStatusUnpaid    PlanStatus = "UNPAID"
	PlanStatusPartial   PlanStatus = "PARTIAL"
	PlanStatusCompleted PlanStatus = "COMPLETED"
)

// PaymentPlan tracks the cumulative fee, paid amount and outstanding balance
// for one enrollment. Balance never goes below zero; total_paid only grows
// through recorded payments.
type PaymentPlan struct {
	gorm.Model
	EnrollmentID  uint       `gorm:"not null;uniqueIndex" json:"enrollmentId"`
	UserID        uint       `gorm:"not null;index" json:"userId"`
	CourseID      uint       `gorm:"not null;index" json:"courseId"`
	TotalFee      float64    `gorm:"not null" json:"totalFee"`
	TotalPaid     float64    `gorm:"not null;default:0" json:"totalPaid"`
	Balance       float64    `gorm:"not null;default:0" json:"balance"`
	PaymentStatus PlanStatus `gorm:"type:varchar(20);default:'UNPAID'" json:"paymentStatus"`
	IsDeleted     bool       `gorm:"default:false" json:"isDeleted"`
}

func (PaymentPlan) TableName() string {
	return "payment_plans"
}

// RecordPayment adds a received amount to the plan. Increment, balance and
// status move in a single UPDATE whose expressions read the pre-update row, so
// concurrent recordings cannot interleave a stale recompute.
func (pl *PaymentPlan) RecordPayment(db *gorm.DB, amount float64) error {
	if err := db.Model(&PaymentPlan{}).
		Where("id = ?", pl.ID).
		Updates(map[string]interface{}{
			"total_paid": gorm.Expr("total_paid + ?", amount),
			"balance": gorm.Expr(
				"CASE WHEN total_fee - (total_paid + ?) > 0 THEN total_fee - (total_paid + ?) ELSE 0 END",
				amount, amount),
			"payment_status": gorm.Expr(
				"CASE WHEN total_fee - (total_paid + ?) > 0 THEN ? ELSE ? END",
				amount, PlanStatusPartial, PlanStatusCompleted),
		}).Error; err != nil {
		return err
	}

	// Reload to see the stored totals, including any applied concurrently.
	return db.First(pl, pl.ID).Error
}
