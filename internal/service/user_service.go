package service

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"

	"go.uber.org/zap"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, util.NotFoundOr(err, "User", "id", id)
	}
	return user, nil
}

func (s *UserService) GetByUsername(username string) (*model.User, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return nil, util.NotFoundOr(err, "User", "username", username)
	}
	return user, nil
}

func (s *UserService) ListPublic() ([]model.User, error) {
	return s.UserRepo.FindPublicActive()
}

func (s *UserService) SearchByOfferedSkill(skillName string) ([]model.User, error) {
	return s.UserRepo.FindPublicActiveBySkill(skillName, true)
}

func (s *UserService) SearchByWantedSkill(skillName string) ([]model.User, error) {
	return s.UserRepo.FindPublicActiveBySkill(skillName, false)
}

// ProfileUpdate 为 nil 的字段保持不变
type ProfileUpdate struct {
	Name         *string
	Location     *string
	ProfilePhoto *string
	Availability *string
	IsPublic     *bool
	Password     *string
}

func (s *UserService) UpdateProfile(userID uint, in ProfileUpdate) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Location != nil {
		user.Location = *in.Location
	}
	if in.ProfilePhoto != nil {
		user.ProfilePhoto = *in.ProfilePhoto
	}
	if in.Availability != nil {
		user.Availability = *in.Availability
	}
	if in.IsPublic != nil {
		user.IsPublic = *in.IsPublic
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetProfilePhoto(userID uint, url string) (*model.User, error) {
	return s.UpdateProfile(userID, ProfileUpdate{ProfilePhoto: &url})
}

func (s *UserService) setFlag(userID uint, column string, value bool) error {
	if _, err := s.GetByID(userID); err != nil {
		return err
	}
	if err := s.UserRepo.UpdateFlags(userID, map[string]interface{}{column: value}); err != nil {
		return err
	}
	logger.Log.Info("User flag changed", zap.Uint("userID", userID), zap.String("flag", column), zap.Bool("value", value))
	return nil
}

func (s *UserService) Activate(userID uint) error {
	return s.setFlag(userID, "is_active", true)
}

func (s *UserService) Deactivate(userID uint) error {
	return s.setFlag(userID, "is_active", false)
}

func (s *UserService) MakeAdmin(userID uint) error {
	return s.setFlag(userID, "is_admin", true)
}

func (s *UserService) RemoveAdmin(userID uint) error {
	return s.setFlag(userID, "is_admin", false)
}

func (s *UserService) ListAdmins() ([]model.User, error) {
	return s.UserRepo.FindByAdmin(true)
}

func (s *UserService) List(page, limit int) ([]model.User, int64, error) {
	page, limit = util.NormalizePage(page, limit)
	return s.UserRepo.List(page, limit)
}
