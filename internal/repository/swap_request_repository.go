package repository

import (
	"context"
	"skillswap_backend/internal/model"
	"skillswap_backend/pkg/logger"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	swapStatsKey        = "skillswap:swap:stats"
	swapStatsVersionKey = "skillswap:swap:stats:ver"
)

// SwapStatsTTL 统计缓存过期时间，定时任务会提前刷新
const SwapStatsTTL = 10 * time.Minute

type SwapRequestRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewSwapRequestRepository(db *gorm.DB, rdb *redis.Client) *SwapRequestRepository {
	return &SwapRequestRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *SwapRequestRepository) WithTx(tx *gorm.DB) *SwapRequestRepository {
	return &SwapRequestRepository{DB: tx, Redis: r.Redis, ctx: r.ctx}
}

func (r *SwapRequestRepository) preload() *gorm.DB {
	return r.DB.Preload("Requester").
		Preload("Provider").
		Preload("RequestedSkill").
		Preload("OfferedSkill")
}

func (r *SwapRequestRepository) Create(req *model.SwapRequest) error {
	return r.DB.Create(req).Error
}

func (r *SwapRequestRepository) FindByID(id uint) (*model.SwapRequest, error) {
	var req model.SwapRequest
	err := r.preload().First(&req, id).Error
	return &req, err
}

// FindByUser 用户作为申请方或提供方的全部申请
func (r *SwapRequestRepository) FindByUser(userID uint) ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.preload().
		Where("requester_id = ? OR provider_id = ?", userID, userID).
		Order("request_date DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *SwapRequestRepository) FindByUserAndStatus(userID uint, status model.SwapStatus) ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.preload().
		Where("(requester_id = ? OR provider_id = ?) AND status = ?", userID, userID, status).
		Order("request_date DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *SwapRequestRepository) FindByRequester(userID uint) ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.preload().Where("requester_id = ?", userID).Order("request_date DESC, id DESC").Find(&reqs).Error
	return reqs, err
}

func (r *SwapRequestRepository) FindByProvider(userID uint) ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.preload().Where("provider_id = ?", userID).Order("request_date DESC, id DESC").Find(&reqs).Error
	return reqs, err
}

func (r *SwapRequestRepository) FindAll() ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.preload().Order("request_date DESC, id DESC").Find(&reqs).Error
	return reqs, err
}

func (r *SwapRequestRepository) FindByStatus(status model.SwapStatus) ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.preload().Where("status = ?", status).Order("request_date DESC, id DESC").Find(&reqs).Error
	return reqs, err
}

// UpdateStatusIf 仅当当前状态属于 from 时才更新，返回是否更新成功。
// 状态检查和写入在同一条 UPDATE 中完成，并发迁移只有一个能成功
func (r *SwapRequestRepository) UpdateStatusIf(id uint, from []model.SwapStatus, to model.SwapStatus, responseDate *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if responseDate != nil {
		updates["response_date"] = *responseDate
	}

	result := r.DB.Model(&model.SwapRequest{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Stats 各状态的申请数量，key 为状态名
func (r *SwapRequestRepository) Stats() (map[model.SwapStatus]int64, error) {
	type row struct {
		Status model.SwapStatus
		Count  int64
	}
	var rows []row
	err := r.DB.Model(&model.SwapRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[model.SwapStatus]int64, len(model.AllSwapStatuses))
	for _, s := range model.AllSwapStatuses {
		stats[s] = 0
	}
	for _, rw := range rows {
		stats[rw.Status] = rw.Count
	}
	return stats, nil
}

// StatsCached 先读 redis hash，未命中时回源并写回
func (r *SwapRequestRepository) StatsCached() (map[model.SwapStatus]int64, error) {
	if r.Redis == nil {
		return r.Stats()
	}

	cached, err := r.Redis.HGetAll(r.ctx, swapStatsKey).Result()
	if err == nil && len(cached) == len(model.AllSwapStatuses) {
		stats := make(map[model.SwapStatus]int64, len(cached))
		for k, v := range cached {
			n, perr := strconv.ParseInt(v, 10, 64)
			if perr != nil {
				return r.RefreshStatsCache()
			}
			stats[model.SwapStatus(k)] = n
		}
		return stats, nil
	}

	return r.RefreshStatsCache()
}

// RefreshStatsCache 重新统计并覆盖缓存。
// 统计期间版本号变化(有状态迁移)时放弃写入，避免旧数据覆盖失效结果
func (r *SwapRequestRepository) RefreshStatsCache() (map[model.SwapStatus]int64, error) {
	if r.Redis == nil {
		return r.Stats()
	}

	var stats map[model.SwapStatus]int64
	var dbErr error
	err := r.Redis.Watch(r.ctx, func(tx *redis.Tx) error {
		stats, dbErr = r.Stats()
		if dbErr != nil {
			return dbErr
		}
		fields := make(map[string]interface{}, len(stats))
		for k, v := range stats {
			fields[string(k)] = v
		}
		_, err := tx.TxPipelined(r.ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(r.ctx, swapStatsKey)
			pipe.HSet(r.ctx, swapStatsKey, fields)
			pipe.Expire(r.ctx, swapStatsKey, SwapStatsTTL)
			return nil
		})
		return err
	}, swapStatsVersionKey)

	switch {
	case dbErr != nil:
		return nil, dbErr
	case stats == nil:
		logger.Log.Warn("Redis unavailable, reading swap stats from database", zap.Error(err))
		return r.Stats()
	case err == redis.TxFailedErr:
		logger.Log.Debug("Swap stats changed during refresh, cache not written")
	case err != nil:
		logger.Log.Warn("Failed to write swap stats cache", zap.Error(err))
	}
	return stats, nil
}

// InvalidateStats 删除缓存并递增版本号
func (r *SwapRequestRepository) InvalidateStats() {
	if r.Redis == nil {
		return
	}
	pipe := r.Redis.TxPipeline()
	pipe.Incr(r.ctx, swapStatsVersionKey)
	pipe.Del(r.ctx, swapStatsKey)
	if _, err := pipe.Exec(r.ctx); err != nil {
		logger.Log.Warn("Failed to invalidate swap stats cache", zap.Error(err))
	}
}
