package repository

import (
	"context"
	"database/sql"
	"fmt"
	"skillswap_backend/internal/model"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// 没有评价时缓存的占位值，区分"无评价"和"缓存未命中"
const noRatingMarker = "none"

const ratingCacheTTL = 30 * time.Minute

type FeedbackRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewFeedbackRepository(db *gorm.DB, rdb *redis.Client) *FeedbackRepository {
	return &FeedbackRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *FeedbackRepository) WithTx(tx *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: tx, Redis: r.Redis, ctx: r.ctx}
}

func ratingKey(userID uint) string {
	return fmt.Sprintf("skillswap:rating:avg:%d", userID)
}

func (r *FeedbackRepository) preload() *gorm.DB {
	return r.DB.Preload("Reviewer").Preload("Recipient")
}

func (r *FeedbackRepository) Create(f *model.Feedback) error {
	err := r.DB.Create(f).Error
	if err == nil {
		r.InvalidateAverage(f.RecipientID)
	}
	return err
}

func (r *FeedbackRepository) FindByID(id uint) (*model.Feedback, error) {
	var f model.Feedback
	err := r.preload().First(&f, id).Error
	return &f, err
}

func (r *FeedbackRepository) Delete(f *model.Feedback) error {
	err := r.DB.Delete(&model.Feedback{}, f.ID).Error
	if err == nil {
		r.InvalidateAverage(f.RecipientID)
	}
	return err
}

func (r *FeedbackRepository) FindAll() ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.preload().Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *FeedbackRepository) FindByReviewer(userID uint) ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.preload().Where("reviewer_id = ?", userID).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *FeedbackRepository) FindByRecipient(userID uint) ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.preload().Where("recipient_id = ?", userID).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *FeedbackRepository) FindBySwapRequest(swapRequestID uint) ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.preload().Where("swap_request_id = ?", swapRequestID).Order("id").Find(&list).Error
	return list, err
}

func (r *FeedbackRepository) ExistsByReviewerAndSwapRequest(reviewerID, swapRequestID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Feedback{}).
		Where("reviewer_id = ? AND swap_request_id = ?", reviewerID, swapRequestID).
		Count(&count).Error
	return count > 0, err
}

func (r *FeedbackRepository) FindByRatingAtMost(rating int) ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.preload().Where("rating <= ?", rating).Order("rating, id").Find(&list).Error
	return list, err
}

func (r *FeedbackRepository) FindByRatingAtLeast(rating int) ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.preload().Where("rating >= ?", rating).Order("rating DESC, id").Find(&list).Error
	return list, err
}

// FindByCreatedBetween 闭区间
func (r *FeedbackRepository) FindByCreatedBetween(start, end time.Time) ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.preload().
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at, id").
		Find(&list).Error
	return list, err
}

func (r *FeedbackRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Feedback{}).Count(&count).Error
	return count, err
}

// AverageRating 没有评价时返回 nil
func (r *FeedbackRepository) AverageRating(userID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := r.DB.Model(&model.Feedback{}).
		Select("AVG(rating)").
		Where("recipient_id = ?", userID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}

// AverageRatingCached 带缓存的平均分，无评价也会缓存占位值
func (r *FeedbackRepository) AverageRatingCached(userID uint) (*float64, error) {
	if r.Redis == nil {
		return r.AverageRating(userID)
	}

	key := ratingKey(userID)
	cached, err := r.Redis.Get(r.ctx, key).Result()
	if err == nil {
		if cached == noRatingMarker {
			return nil, nil
		}
		if v, perr := strconv.ParseFloat(cached, 64); perr == nil {
			return &v, nil
		}
	}

	// 缓存失效，回源数据库
	avg, err := r.AverageRating(userID)
	if err != nil {
		return nil, err
	}
	value := noRatingMarker
	if avg != nil {
		value = strconv.FormatFloat(*avg, 'f', -1, 64)
	}
	r.Redis.Set(r.ctx, key, value, ratingCacheTTL)
	return avg, nil
}

func (r *FeedbackRepository) InvalidateAverage(userID uint) {
	if r.Redis != nil {
		r.Redis.Del(r.ctx, ratingKey(userID))
	}
}
