package model

import "time"

// Feedback 交换完成后的评价，每个评价人对同一交换只能评价一次
type Feedback struct {
	ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	ReviewerID    uint         `gorm:"not null;uniqueIndex:idx_feedback_reviewer_swap" json:"reviewerId"`
	Reviewer      *User        `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	RecipientID   uint         `gorm:"not null;index" json:"recipientId"`
	Recipient     *User        `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	SwapRequestID uint         `gorm:"not null;uniqueIndex:idx_feedback_reviewer_swap" json:"swapRequestId"`
	SwapRequest   *SwapRequest `gorm:"foreignKey:SwapRequestID" json:"swapRequest,omitempty"`
	Rating        int          `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment       string       `gorm:"size:500" json:"comment"`
	CreatedAt     time.Time    `gorm:"not null;index" json:"createdAt"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
