package service

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"
	"skillswap_backend/pkg/monitoring"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SwapRequestService struct {
	DB        *gorm.DB
	SwapRepo  *repository.SwapRequestRepository
	SkillRepo *repository.SkillRepository
	UserRepo  *repository.UserRepository
	// 测试中可替换
	Now func() time.Time
}

func NewSwapRequestService(db *gorm.DB, swapRepo *repository.SwapRequestRepository, skillRepo *repository.SkillRepository, userRepo *repository.UserRepository) *SwapRequestService {
	return &SwapRequestService{
		DB:        db,
		SwapRepo:  swapRepo,
		SkillRepo: skillRepo,
		UserRepo:  userRepo,
		Now:       time.Now,
	}
}

type CreateSwapInput struct {
	RequesterID      uint
	ProviderID       uint
	RequestedSkillID uint
	OfferedSkillID   uint
	Message          string
}

func (s *SwapRequestService) GetByID(id uint) (*model.SwapRequest, error) {
	req, err := s.SwapRepo.FindByID(id)
	if err != nil {
		return nil, util.NotFoundOr(err, "SwapRequest", "id", id)
	}
	return req, nil
}

func (s *SwapRequestService) ListByUser(userID uint) ([]model.SwapRequest, error) {
	return s.SwapRepo.FindByUser(userID)
}

func (s *SwapRequestService) ListSent(userID uint) ([]model.SwapRequest, error) {
	return s.SwapRepo.FindByRequester(userID)
}

func (s *SwapRequestService) ListReceived(userID uint) ([]model.SwapRequest, error) {
	return s.SwapRepo.FindByProvider(userID)
}

func (s *SwapRequestService) ListByUserAndStatus(userID uint, status model.SwapStatus) ([]model.SwapRequest, error) {
	return s.SwapRepo.FindByUserAndStatus(userID, status)
}

func (s *SwapRequestService) ListAll() ([]model.SwapRequest, error) {
	return s.SwapRepo.FindAll()
}

func (s *SwapRequestService) ListByStatus(status model.SwapStatus) ([]model.SwapRequest, error) {
	return s.SwapRepo.FindByStatus(status)
}

// Stats 各状态数量，启用 redis 时读缓存
func (s *SwapRequestService) Stats() (map[model.SwapStatus]int64, error) {
	return s.SwapRepo.StatsCached()
}

func (s *SwapRequestService) RefreshStats() error {
	_, err := s.SwapRepo.RefreshStatsCache()
	return err
}

// Create 调用方身份由控制器校验，这里只校验技能归属和审核状态
func (s *SwapRequestService) Create(in CreateSwapInput) (*model.SwapRequest, error) {
	if utf8.RuneCountInString(in.Message) > util.MaxSwapMessageLength {
		return nil, util.BadRequestf("Message must be at most %d characters", util.MaxSwapMessageLength)
	}

	var created *model.SwapRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		skills := s.SkillRepo.WithTx(tx)

		requester, err := users.FindByID(in.RequesterID)
		if err != nil {
			return util.NotFoundOr(err, "User", "id", in.RequesterID)
		}
		provider, err := users.FindByID(in.ProviderID)
		if err != nil {
			return util.NotFoundOr(err, "User", "id", in.ProviderID)
		}
		requestedSkill, err := skills.FindByID(in.RequestedSkillID)
		if err != nil {
			return util.NotFoundOr(err, "Skill", "id", in.RequestedSkillID)
		}
		offeredSkill, err := skills.FindByID(in.OfferedSkillID)
		if err != nil {
			return util.NotFoundOr(err, "Skill", "id", in.OfferedSkillID)
		}

		if requestedSkill.UserID != provider.ID || !requestedSkill.IsOffered {
			return util.BadRequestf("Invalid requested skill. The skill must belong to the provider and be offered.")
		}
		if offeredSkill.UserID != requester.ID || !offeredSkill.IsOffered {
			return util.BadRequestf("Invalid offered skill. The skill must belong to the requester and be offered.")
		}
		if !requestedSkill.SwapEligible() || !offeredSkill.SwapEligible() {
			return util.BadRequestf("Skills must be approved before creating a swap request.")
		}

		req := &model.SwapRequest{
			RequesterID:      requester.ID,
			ProviderID:       provider.ID,
			RequestedSkillID: requestedSkill.ID,
			OfferedSkillID:   offeredSkill.ID,
			Message:          in.Message,
			RequestDate:      s.Now(),
			Status:           model.SwapPending,
		}
		if err := s.SwapRepo.WithTx(tx).Create(req); err != nil {
			return err
		}

		req.Requester = requester
		req.Provider = provider
		req.RequestedSkill = requestedSkill
		req.OfferedSkill = offeredSkill
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.SwapRepo.InvalidateStats()
	monitoring.SwapRequestsCreated.Inc()
	logger.Log.Info("Swap request created",
		zap.Uint("swapRequestID", created.ID),
		zap.Uint("requesterID", created.RequesterID),
		zap.Uint("providerID", created.ProviderID),
	)
	return created, nil
}

func (s *SwapRequestService) Accept(id uint) (*model.SwapRequest, error) {
	return s.transition(id, model.SwapAccept)
}

func (s *SwapRequestService) Reject(id uint) (*model.SwapRequest, error) {
	return s.transition(id, model.SwapReject)
}

func (s *SwapRequestService) Complete(id uint) (*model.SwapRequest, error) {
	return s.transition(id, model.SwapComplete)
}

func (s *SwapRequestService) Cancel(id uint) (*model.SwapRequest, error) {
	return s.transition(id, model.SwapCancel)
}

// transition 在一个事务内完成状态检查和写入。
// UpdateStatusIf 带状态条件，并发请求中只有一个能更新成功，失败的一方重新读取当前状态报错
func (s *SwapRequestService) transition(id uint, action model.SwapAction) (*model.SwapRequest, error) {
	tr, ok := model.SwapTransitions[action]
	if !ok {
		return nil, util.BadRequestf("Unknown swap request action: %s", action)
	}

	var updated *model.SwapRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.SwapRepo.WithTx(tx)

		current, err := repo.FindByID(id)
		if err != nil {
			return util.NotFoundOr(err, "SwapRequest", "id", id)
		}
		if !tr.Allows(current.Status) {
			return util.BadRequestf(tr.InvalidStateMessage, current.Status)
		}

		var responseDate *time.Time
		if tr.StampsResponse {
			now := s.Now()
			responseDate = &now
		}

		changed, err := repo.UpdateStatusIf(id, tr.From, tr.To, responseDate)
		if err != nil {
			return err
		}
		if !changed {
			latest, err := repo.FindByID(id)
			if err != nil {
				return util.NotFoundOr(err, "SwapRequest", "id", id)
			}
			return util.BadRequestf(tr.InvalidStateMessage, latest.Status)
		}

		updated, err = repo.FindByID(id)
		return err
	})

	if err != nil {
		if util.KindOf(err) == util.KindBadRequest {
			monitoring.SwapTransitions.WithLabelValues(string(action), "rejected").Inc()
		}
		return nil, err
	}

	s.SwapRepo.InvalidateStats()
	monitoring.SwapTransitions.WithLabelValues(string(action), "ok").Inc()
	logger.Log.Info("Swap request status changed",
		zap.Uint("swapRequestID", id),
		zap.String("action", string(action)),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}
