package models

import (
	"gorm.io/gorm"
)

// WebhookLog is a write-once audit record for every inbound gateway callback,
// valid or not. Rows are appended and never updated except for the processing
// outcome of the same request.
type WebhookLog struct {
	gorm.Model
	Provider       string `gorm:"type:varchar(50)" json:"provider"`
	EventType      string `gorm:"type:varchar(100)" json:"eventType"`
	Payload        string `gorm:"type:text" json:"payload"`
	Signature      string `gorm:"type:varchar(255)" json:"signature"`
	SignatureValid bool   `gorm:"default:false" json:"signatureValid"`
	Processed      bool   `gorm:"default:false" json:"processed"`
	ErrorMessage   string `gorm:"type:text" json:"errorMessage"`
}

func (WebhookLog) TableName() string {
	return "webhook_logs"
}
