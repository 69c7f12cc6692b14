package model

// swagger:model User
// 布尔字段不设置 gorm default，否则 false 会在创建时被默认值覆盖
type User struct {
	BaseModel
	Username     string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password     string `gorm:"size:100;not null" json:"-"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Location     string `gorm:"size:100" json:"location"`
	ProfilePhoto string `gorm:"size:255" json:"profilePhoto"`
	Availability string `gorm:"size:100;not null" json:"availability"`
	IsPublic     bool   `gorm:"not null" json:"isPublic"`
	IsAdmin      bool   `gorm:"not null;index" json:"isAdmin"`
	IsActive     bool   `gorm:"not null" json:"isActive"`
}

func (User) TableName() string {
	return "users"
}
