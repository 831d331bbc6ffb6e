package course

import (
	"time"

	"gorm.io/gorm"
)

// CertificateRequest represents a student's request for a course certificate
type CertificateRequest struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"index;not null"`
	CourseID          uint       `json:"course_id" gorm:"index;not null"`
	EnrollmentID      uint       `json:"enrollment_id" gorm:"index;not null"`
	Status            string     `json:"status" gorm:"default:'PENDING'"` // PENDING, ISSUED, REJECTED
	CertificateNumber string     `json:"certificate_number"`
	IssuedAt          *time.Time `json:"issued_at"`
	RejectionReason   string     `json:"rejection_reason"`
	IsDeleted         bool       `gorm:"default:false"`
}
