package repository

import (
	"skillswap_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) WithTx(tx *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: tx}
}

func (r *SkillRepository) Create(skill *model.Skill) error {
	return r.DB.Create(skill).Error
}

func (r *SkillRepository) FindByID(id uint) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.Preload("User").First(&skill, id).Error
	return &skill, err
}

func (r *SkillRepository) Update(skill *model.Skill) error {
	return r.DB.Model(skill).Select("name", "description", "is_offered", "is_approved").Updates(skill).Error
}

func (r *SkillRepository) SetApproved(id uint, approved bool) error {
	return r.DB.Model(&model.Skill{}).Where("id = ?", id).Update("is_approved", approved).Error
}

func (r *SkillRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Skill{}, id).Error
}

func (r *SkillRepository) FindByUser(userID uint) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Preload("User").Where("user_id = ?", userID).Order("id").Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindByUserAndOffered(userID uint, offered bool) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Preload("User").
		Where("user_id = ? AND is_offered = ?", userID, offered).
		Order("id").
		Find(&skills).Error
	return skills, err
}

// visibleOwners 只保留公开且启用的用户的技能
func (r *SkillRepository) visibleOwners() *gorm.DB {
	return r.DB.Select("skills.*").
		Preload("User").
		Joins("JOIN users ON users.id = skills.user_id").
		Where("users.is_public = ? AND users.is_active = ?", true, true)
}

// SearchByName 不区分大小写的名称搜索，包含未审核技能
func (r *SkillRepository) SearchByName(name string) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.visibleOwners().
		Where("LOWER(skills.name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("skills.id").
		Find(&skills).Error
	return skills, err
}

// SearchApproved 只返回已审核的 offered 或 wanted 技能
func (r *SkillRepository) SearchApproved(name string, offered bool) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.visibleOwners().
		Where("skills.name LIKE ? AND skills.is_offered = ? AND skills.is_approved = ?", "%"+name+"%", offered, true).
		Order("skills.id").
		Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindByApproved(approved bool) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Preload("User").Where("is_approved = ?", approved).Order("id").Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) DistinctApprovedNames() ([]string, error) {
	var names []string
	err := r.DB.Model(&model.Skill{}).
		Where("is_approved = ?", true).
		Distinct("name").
		Order("name").
		Pluck("name", &names).Error
	return names, err
}

// CountSwapReferences 统计引用该技能的交换申请数量
func (r *SkillRepository) CountSwapReferences(id uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SwapRequest{}).
		Where("requested_skill_id = ? OR offered_skill_id = ?", id, id).
		Count(&count).Error
	return count, err
}

func (r *SkillRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Skill{}).Count(&count).Error
	return count, err
}

func (r *SkillRepository) CountByApproved(approved bool) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Skill{}).Where("is_approved = ?", approved).Count(&count).Error
	return count, err
}
