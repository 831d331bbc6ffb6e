package course

import (
	"time"

	"gorm.io/gorm"
)

// EnrollmentStatus defines the lifecycle state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentStatusPending   EnrollmentStatus = "PENDING" // awaiting payment
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusCancelled EnrollmentStatus = "CANCELLED"
)

// Enrollment tracks a user's enrollment in a course with progress
type Enrollment struct {
	gorm.Model
	UserID            uint             `json:"user_id" gorm:"index;not null"`
	CourseID          uint             `json:"course_id" gorm:"index;not null"`
	Status            EnrollmentStatus `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	Progress          float64          `json:"progress" gorm:"default:0"` // Completion percentage (0-100)
	CompletedContents int              `json:"completed_contents" gorm:"default:0"`
	TotalContents     int              `json:"total_contents" gorm:"default:0"`
	EnrolledAt        *time.Time       `json:"enrolled_at"`
	CompletedAt       *time.Time       `json:"completed_at"`
	IsDeleted         bool             `gorm:"default:false"`

	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

// Activate moves a pending enrollment to ACTIVE. Calling it on an enrollment
// that already left PENDING is a no-op, so duplicate payment notifications
// cannot activate twice.
func (e *Enrollment) Activate(db *gorm.DB) error {
	now := time.Now()

	updates := map[string]interface{}{"status": EnrollmentStatusActive}
	if e.EnrolledAt == nil {
		updates["enrolled_at"] = now
	}

	res := db.Model(&Enrollment{}).
		Where("id = ? AND status = ?", e.ID, EnrollmentStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Already active (or completed); nothing to do.
		return nil
	}

	e.Status = EnrollmentStatusActive
	if e.EnrolledAt == nil {
		e.EnrolledAt = &now
	}
	return nil
}
