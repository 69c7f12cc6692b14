package model

import (
	"strings"
	"time"
)

type SwapStatus string

const (
	SwapPending   SwapStatus = "PENDING"
	SwapAccepted  SwapStatus = "ACCEPTED"
	SwapRejected  SwapStatus = "REJECTED"
	SwapCompleted SwapStatus = "COMPLETED"
	SwapCancelled SwapStatus = "CANCELLED"
)

// AllSwapStatuses 按生命周期顺序排列
var AllSwapStatuses = []SwapStatus{SwapPending, SwapAccepted, SwapRejected, SwapCompleted, SwapCancelled}

// ParseSwapStatus 不区分大小写
func ParseSwapStatus(s string) (SwapStatus, bool) {
	status := SwapStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range AllSwapStatuses {
		if st == status {
			return status, true
		}
	}
	return "", false
}

type SwapAction string

const (
	SwapAccept   SwapAction = "accept"
	SwapReject   SwapAction = "reject"
	SwapComplete SwapAction = "complete"
	SwapCancel   SwapAction = "cancel"
)

// SwapTransition 一次状态迁移的前置状态、目标状态以及失败提示
type SwapTransition struct {
	From []SwapStatus
	To   SwapStatus
	// 只有 accept/reject 会写 responseDate
	StampsResponse bool
	// 包含一个 %s，填入当前状态
	InvalidStateMessage string
}

func (t SwapTransition) Allows(current SwapStatus) bool {
	for _, s := range t.From {
		if s == current {
			return true
		}
	}
	return false
}

var SwapTransitions = map[SwapAction]SwapTransition{
	SwapAccept: {
		From:                []SwapStatus{SwapPending},
		To:                  SwapAccepted,
		StampsResponse:      true,
		InvalidStateMessage: "Swap request is not in PENDING status. Current status: %s",
	},
	SwapReject: {
		From:                []SwapStatus{SwapPending},
		To:                  SwapRejected,
		StampsResponse:      true,
		InvalidStateMessage: "Swap request is not in PENDING status. Current status: %s",
	},
	SwapComplete: {
		From:                []SwapStatus{SwapAccepted},
		To:                  SwapCompleted,
		InvalidStateMessage: "Swap request is not in ACCEPTED status. Current status: %s",
	},
	SwapCancel: {
		From:                []SwapStatus{SwapPending, SwapAccepted},
		To:                  SwapCancelled,
		InvalidStateMessage: "Swap request cannot be cancelled in its current status: %s",
	},
}

// SwapRequest 技能交换申请
type SwapRequest struct {
	BaseModel
	RequesterID      uint       `gorm:"index;not null" json:"requesterId"`
	Requester        *User      `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	ProviderID       uint       `gorm:"index;not null" json:"providerId"`
	Provider         *User      `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	RequestedSkillID uint       `gorm:"index;not null" json:"requestedSkillId"`
	RequestedSkill   *Skill     `gorm:"foreignKey:RequestedSkillID" json:"requestedSkill,omitempty"`
	OfferedSkillID   uint       `gorm:"index;not null" json:"offeredSkillId"`
	OfferedSkill     *Skill     `gorm:"foreignKey:OfferedSkillID" json:"offeredSkill,omitempty"`
	Message          string     `gorm:"size:300" json:"message"`
	RequestDate      time.Time  `gorm:"not null" json:"requestDate"`
	ResponseDate     *time.Time `json:"responseDate"`
	Status           SwapStatus `gorm:"size:20;not null;index" json:"status"`
}

func (SwapRequest) TableName() string {
	return "swap_requests"
}

func (r *SwapRequest) IsParticipant(userID uint) bool {
	return r.RequesterID == userID || r.ProviderID == userID
}
