package course

import "gorm.io/gorm"

// CourseStatus defines the publication state of a course
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
	CourseStatusArchived  CourseStatus = "ARCHIVED"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Author       string       `json:"author"`
	Category     string       `json:"category"`
	Duration     int64        `json:"duration" gorm:"default:0"` // duration in hours
	Price        float64      `json:"price" gorm:"default:0"`    // 0 means free
	Currency     string       `json:"currency" gorm:"type:varchar(10);default:'ZMW'"`
	Status       CourseStatus `json:"status" gorm:"type:varchar(20);default:'DRAFT'"`
	Rating       uint         `json:"rating" gorm:"default:0"`
	ThumbnailURL string       `json:"thumbnail_url"`
	IsDeleted    bool         `gorm:"default:false"`
}

// IsFree reports whether the course requires no payment to enroll
func (c *Course) IsFree() bool {
	return c.Price <= 0
}
