package service

import (
	"errors"
	"fmt"
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

type FeedbackService struct {
	DB           *gorm.DB
	FeedbackRepo *repository.FeedbackRepository
	SwapRepo     *repository.SwapRequestRepository
	UserRepo     *repository.UserRepository
	Now          func() time.Time
}

func NewFeedbackService(db *gorm.DB, feedbackRepo *repository.FeedbackRepository, swapRepo *repository.SwapRequestRepository, userRepo *repository.UserRepository) *FeedbackService {
	return &FeedbackService{
		DB:           db,
		FeedbackRepo: feedbackRepo,
		SwapRepo:     swapRepo,
		UserRepo:     userRepo,
		Now:          time.Now,
	}
}

type CreateFeedbackInput struct {
	ReviewerID    uint
	RecipientID   uint
	SwapRequestID uint
	Rating        int
	Comment       string
}

func (s *FeedbackService) GetByID(id uint) (*model.Feedback, error) {
	f, err := s.FeedbackRepo.FindByID(id)
	if err != nil {
		return nil, util.NotFoundOr(err, "Feedback", "id", id)
	}
	return f, nil
}

func (s *FeedbackService) ListAll() ([]model.Feedback, error) {
	return s.FeedbackRepo.FindAll()
}

func (s *FeedbackService) ListGiven(userID uint) ([]model.Feedback, error) {
	return s.FeedbackRepo.FindByReviewer(userID)
}

func (s *FeedbackService) ListReceived(userID uint) ([]model.Feedback, error) {
	return s.FeedbackRepo.FindByRecipient(userID)
}

func (s *FeedbackService) ListBySwapRequest(swapRequestID uint) ([]model.Feedback, error) {
	return s.FeedbackRepo.FindBySwapRequest(swapRequestID)
}

func (s *FeedbackService) ListRatingAtMost(rating int) ([]model.Feedback, error) {
	return s.FeedbackRepo.FindByRatingAtMost(rating)
}

func (s *FeedbackService) ListRatingAtLeast(rating int) ([]model.Feedback, error) {
	return s.FeedbackRepo.FindByRatingAtLeast(rating)
}

func (s *FeedbackService) ListCreatedBetween(start, end time.Time) ([]model.Feedback, error) {
	if end.Before(start) {
		return nil, util.BadRequestf("End date must not be before start date")
	}
	return s.FeedbackRepo.FindByCreatedBetween(start, end)
}

// AverageRating 没有收到评价时返回 nil，而不是 0
func (s *FeedbackService) AverageRating(userID uint) (*float64, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return nil, util.NotFoundOr(err, "User", "id", userID)
	}
	return s.FeedbackRepo.AverageRatingCached(userID)
}

func (s *FeedbackService) Create(in CreateFeedbackInput) (*model.Feedback, error) {
	if utf8.RuneCountInString(in.Comment) > util.MaxFeedbackCommentLength {
		return nil, util.BadRequestf("Comment must be at most %d characters", util.MaxFeedbackCommentLength)
	}

	var created *model.Feedback
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		feedbacks := s.FeedbackRepo.WithTx(tx)

		reviewer, err := users.FindByID(in.ReviewerID)
		if err != nil {
			return util.NotFoundOr(err, "User", "id", in.ReviewerID)
		}
		recipient, err := users.FindByID(in.RecipientID)
		if err != nil {
			return util.NotFoundOr(err, "User", "id", in.RecipientID)
		}
		swap, err := s.SwapRepo.WithTx(tx).FindByID(in.SwapRequestID)
		if err != nil {
			return util.NotFoundOr(err, "SwapRequest", "id", in.SwapRequestID)
		}

		if swap.Status != model.SwapCompleted {
			return util.BadRequestf("Feedback can only be given for completed swap requests. Current status: %s", swap.Status)
		}
		if !swap.IsParticipant(reviewer.ID) {
			return util.BadRequestf("Only participants of the swap can give feedback. User ID %d is not a participant.", reviewer.ID)
		}
		if !swap.IsParticipant(recipient.ID) {
			return util.BadRequestf("Recipient must be a participant of the swap. User ID %d is not a participant.", recipient.ID)
		}
		if reviewer.ID == recipient.ID {
			return util.BadRequestf("Cannot give feedback to yourself.")
		}

		exists, err := feedbacks.ExistsByReviewerAndSwapRequest(reviewer.ID, swap.ID)
		if err != nil {
			return err
		}
		if exists {
			return duplicateFeedback(reviewer.ID, swap.ID)
		}

		if in.Rating < util.MinRating || in.Rating > util.MaxRating {
			return util.BadRequestf("Rating must be between %d and %d. Provided rating: %d", util.MinRating, util.MaxRating, in.Rating)
		}

		f := &model.Feedback{
			ReviewerID:    reviewer.ID,
			RecipientID:   recipient.ID,
			SwapRequestID: swap.ID,
			Rating:        in.Rating,
			Comment:       in.Comment,
			CreatedAt:     s.Now(),
		}
		if err := feedbacks.Create(f); err != nil {
			// 并发重复提交由唯一索引兜底
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return duplicateFeedback(reviewer.ID, swap.ID)
			}
			return err
		}
		f.Reviewer = reviewer
		f.Recipient = recipient
		created = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后再清一次，避免提交前被其他请求回填旧值
	s.FeedbackRepo.InvalidateAverage(created.RecipientID)
	monitoring.FeedbackCreated.Inc()
	logger.Log.Info("Feedback created",
		zap.Uint("feedbackID", created.ID),
		zap.Uint("swapRequestID", created.SwapRequestID),
		zap.Int("rating", created.Rating),
	)
	return created, nil
}

func duplicateFeedback(reviewerID, swapRequestID uint) error {
	return util.ErrDuplicateResource("Feedback", "reviewer and swap request", fmt.Sprintf("%d and %d", reviewerID, swapRequestID))
}

func (s *FeedbackService) Delete(id uint) error {
	f, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.FeedbackRepo.Delete(f)
}
