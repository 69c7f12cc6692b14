package database

import (
	"errors"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/model"
	"skillswap_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AdminUsername  = "admin"
	SystemUsername = "system"
)

// PredefinedSkills 系统账号名下的内置技能，同时作为 offered 和 wanted 创建
var PredefinedSkills = []string{
	"Java", "React", "HTML", "CSS", "JavaScript", "Python", "C", "C++", "C#",
	"PHP", "Ruby", "Swift", "Kotlin", "Go", "Rust", "TypeScript", "Angular",
	"Vue.js", "Node.js", "Express.js", "Django", "Flask", "Spring", "Hibernate",
	"SQL", "MongoDB", "PostgreSQL", "MySQL", "Firebase", "AWS", "Docker",
	"Kubernetes", "Git", "DevOps", "Machine Learning", "Artificial Intelligence",
	"Data Science", "Blockchain", "UI/UX Design", "Graphic Design", "Photography",
	"Video Editing", "Content Writing", "Digital Marketing", "SEO", "Social Media Marketing",
}

// Seed 初始化管理员、系统账号和内置技能，可重复执行
func Seed(db *gorm.DB, cfg *config.SeedConfig) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := ensureUser(tx, &model.User{
			Username:     AdminUsername,
			Name:         "Admin User",
			Availability: "Always",
			IsPublic:     true,
			IsAdmin:      true,
			IsActive:     true,
		}, cfg.AdminPassword); err != nil {
			return err
		}

		systemUser, err := ensureUser(tx, &model.User{
			Username:     SystemUsername,
			Name:         "System",
			Availability: "Always",
			IsPublic:     true,
			IsActive:     true,
		}, cfg.SystemPassword)
		if err != nil {
			return err
		}

		var existing []string
		if err := tx.Model(&model.Skill{}).
			Where("is_approved = ?", true).
			Distinct("name").
			Pluck("name", &existing).Error; err != nil {
			return err
		}
		known := make(map[string]bool, len(existing))
		for _, name := range existing {
			known[name] = true
		}

		added := 0
		for _, name := range PredefinedSkills {
			if known[name] {
				continue
			}
			skills := []model.Skill{
				{Name: name, Description: "System-generated skill: " + name, IsOffered: true, IsApproved: true, UserID: systemUser.ID},
				{Name: name, Description: "System-generated skill: " + name, IsOffered: false, IsApproved: true, UserID: systemUser.ID},
			}
			if err := tx.Create(&skills).Error; err != nil {
				return err
			}
			added++
		}

		logger.Log.Info("Data initialization completed", zap.Int("skillsAdded", added))
		return nil
	})
}

func ensureUser(tx *gorm.DB, user *model.User, password string) (*model.User, error) {
	var existing model.User
	err := tx.Where("username = ?", user.Username).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hashed)
	if err := tx.Create(user).Error; err != nil {
		return nil, err
	}
	logger.Log.Info("Seed user created", zap.String("username", user.Username))
	return user, nil
}
