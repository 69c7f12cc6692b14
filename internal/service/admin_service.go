package service

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
)

type AdminService struct {
	UserRepo     *repository.UserRepository
	SkillRepo    *repository.SkillRepository
	SwapRepo     *repository.SwapRequestRepository
	FeedbackRepo *repository.FeedbackRepository
}

func NewAdminService(userRepo *repository.UserRepository, skillRepo *repository.SkillRepository, swapRepo *repository.SwapRequestRepository, feedbackRepo *repository.FeedbackRepository) *AdminService {
	return &AdminService{
		UserRepo:     userRepo,
		SkillRepo:    skillRepo,
		SwapRepo:     swapRepo,
		FeedbackRepo: feedbackRepo,
	}
}

// SwapStats 各状态的交换申请数量
type SwapStats struct {
	Pending   int64 `json:"pending"`
	Accepted  int64 `json:"accepted"`
	Rejected  int64 `json:"rejected"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

func NewSwapStats(m map[model.SwapStatus]int64) SwapStats {
	return SwapStats{
		Pending:   m[model.SwapPending],
		Accepted:  m[model.SwapAccepted],
		Rejected:  m[model.SwapRejected],
		Completed: m[model.SwapCompleted],
		Cancelled: m[model.SwapCancelled],
	}
}

type UserActivityReport struct {
	TotalUsers       int64     `json:"totalUsers"`
	TotalAdmins      int64     `json:"totalAdmins"`
	TotalSkills      int64     `json:"totalSkills"`
	PendingSkills    int64     `json:"pendingSkills"`
	SwapRequestStats SwapStats `json:"swapRequestStats"`
	TotalFeedback    int64     `json:"totalFeedback"`
}

func (s *AdminService) SwapStats() (SwapStats, error) {
	m, err := s.SwapRepo.StatsCached()
	if err != nil {
		return SwapStats{}, err
	}
	return NewSwapStats(m), nil
}

func (s *AdminService) UserActivityReport() (*UserActivityReport, error) {
	var report UserActivityReport
	var err error

	if report.TotalUsers, err = s.UserRepo.Count(); err != nil {
		return nil, err
	}
	if report.TotalAdmins, err = s.UserRepo.CountAdmins(); err != nil {
		return nil, err
	}
	if report.TotalSkills, err = s.SkillRepo.Count(); err != nil {
		return nil, err
	}
	if report.PendingSkills, err = s.SkillRepo.CountByApproved(false); err != nil {
		return nil, err
	}
	if report.SwapRequestStats, err = s.SwapStats(); err != nil {
		return nil, err
	}
	if report.TotalFeedback, err = s.FeedbackRepo.Count(); err != nil {
		return nil, err
	}
	return &report, nil
}
