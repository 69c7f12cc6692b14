package service

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SkillService struct {
	DB        *gorm.DB
	SkillRepo *repository.SkillRepository
	UserRepo  *repository.UserRepository
}

func NewSkillService(db *gorm.DB, skillRepo *repository.SkillRepository, userRepo *repository.UserRepository) *SkillService {
	return &SkillService{
		DB:        db,
		SkillRepo: skillRepo,
		UserRepo:  userRepo,
	}
}

// SkillInput 创建和修改技能共用
type SkillInput struct {
	Name        string
	Description string
	IsOffered   bool
}

func (in *SkillInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return util.BadRequestf("Skill name is required")
	}
	if utf8.RuneCountInString(in.Name) > util.MaxSkillNameLength {
		return util.BadRequestf("Skill name must be at most %d characters", util.MaxSkillNameLength)
	}
	if utf8.RuneCountInString(in.Description) > util.MaxSkillDescriptionLength {
		return util.BadRequestf("Description must be at most %d characters", util.MaxSkillDescriptionLength)
	}
	return nil
}

func (s *SkillService) GetByID(id uint) (*model.Skill, error) {
	skill, err := s.SkillRepo.FindByID(id)
	if err != nil {
		return nil, util.NotFoundOr(err, "Skill", "id", id)
	}
	return skill, nil
}

func (s *SkillService) ListByUser(userID uint) ([]model.Skill, error) {
	return s.SkillRepo.FindByUser(userID)
}

func (s *SkillService) ListOfferedByUser(userID uint) ([]model.Skill, error) {
	return s.SkillRepo.FindByUserAndOffered(userID, true)
}

func (s *SkillService) ListWantedByUser(userID uint) ([]model.Skill, error) {
	return s.SkillRepo.FindByUserAndOffered(userID, false)
}

func (s *SkillService) SearchByName(name string) ([]model.Skill, error) {
	return s.SkillRepo.SearchByName(name)
}

func (s *SkillService) SearchOffered(name string) ([]model.Skill, error) {
	return s.SkillRepo.SearchApproved(name, true)
}

func (s *SkillService) SearchWanted(name string) ([]model.Skill, error) {
	return s.SkillRepo.SearchApproved(name, false)
}

func (s *SkillService) DistinctNames() ([]string, error) {
	return s.SkillRepo.DistinctApprovedNames()
}

func (s *SkillService) ListPendingApproval() ([]model.Skill, error) {
	return s.SkillRepo.FindByApproved(false)
}

// Create offered 技能需要管理员审核，wanted 技能直接通过
func (s *SkillService) Create(userID uint, in SkillInput) (*model.Skill, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.NotFoundOr(err, "User", "id", userID)
	}

	skill := &model.Skill{
		Name:        in.Name,
		Description: in.Description,
		IsOffered:   in.IsOffered,
		IsApproved:  !in.IsOffered,
		UserID:      user.ID,
		User:        user,
	}
	if err := s.SkillRepo.Create(skill); err != nil {
		return nil, err
	}

	logger.Log.Info("Skill created",
		zap.Uint("skillID", skill.ID),
		zap.Uint("userID", userID),
		zap.Bool("offered", skill.IsOffered),
		zap.Bool("approved", skill.IsApproved),
	)
	return skill, nil
}

// Update wanted 改为 offered 时重新进入待审核，offered 改为 wanted 保持审核状态
func (s *SkillService) Update(id uint, in SkillInput) (*model.Skill, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	skill, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !skill.IsOffered && in.IsOffered {
		skill.IsApproved = false
	}
	skill.Name = in.Name
	skill.Description = in.Description
	skill.IsOffered = in.IsOffered

	if err := s.SkillRepo.Update(skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// Delete 已被交换申请引用的技能不能删除
func (s *SkillService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.SkillRepo.WithTx(tx)
		if _, err := repo.FindByID(id); err != nil {
			return util.NotFoundOr(err, "Skill", "id", id)
		}

		refs, err := repo.CountSwapReferences(id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return util.BadRequestf("Skill is used by %d swap request(s) and cannot be deleted", refs)
		}

		return repo.Delete(id)
	})
}

func (s *SkillService) Approve(id uint) error {
	return s.setApproved(id, true)
}

// Reject 只取消审核状态，不删除技能
func (s *SkillService) Reject(id uint) error {
	return s.setApproved(id, false)
}

func (s *SkillService) setApproved(id uint, approved bool) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.SkillRepo.SetApproved(id, approved); err != nil {
		return err
	}
	logger.Log.Info("Skill approval changed", zap.Uint("skillID", id), zap.Bool("approved", approved))
	return nil
}
