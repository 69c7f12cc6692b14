package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// WithTx 返回绑定到事务的副本
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// UpdateFlags 只更新给定的布尔字段，避免 Save 覆盖并发修改的资料
func (r *UserRepository) UpdateFlags(id uint, flags map[string]interface{}) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Updates(flags).Error
}

func (r *UserRepository) FindPublicActive() ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("is_public = ? AND is_active = ?", true, true).
		Order("id").
		Find(&users).Error
	return users, err
}

// FindPublicActiveBySkill 按技能名模糊匹配公开且启用的用户
func (r *UserRepository) FindPublicActiveBySkill(skillName string, offered bool) ([]model.User, error) {
	var users []model.User
	searchTerm := "%" + skillName + "%"
	err := r.DB.Distinct("users.*").
		Joins("JOIN skills ON skills.user_id = users.id").
		Where("skills.name LIKE ? AND skills.is_offered = ?", searchTerm, offered).
		Where("users.is_public = ? AND users.is_active = ?", true, true).
		Order("users.id").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) FindByAdmin(isAdmin bool) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("is_admin = ?", isAdmin).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) List(page, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.DB.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.DB.Order("id").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepository) CountAdmins() (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("is_admin = ?", true).Count(&count).Error
	return count, err
}
