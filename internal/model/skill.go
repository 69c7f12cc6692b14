package model

// Skill 用户提供(offered)或想学(wanted)的技能，删除用户时级联删除
type Skill struct {
	BaseModel
	Name        string `gorm:"size:100;not null;index" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	IsOffered   bool   `gorm:"not null;index" json:"isOffered"`
	IsApproved  bool   `gorm:"not null;index" json:"isApproved"`
	UserID      uint   `gorm:"index;not null" json:"userId"`
	User        *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (Skill) TableName() string {
	return "skills"
}

// SwapEligible 只有已审核的 offered 技能才能用于交换
func (s *Skill) SwapEligible() bool {
	return s.IsOffered && s.IsApproved
}
