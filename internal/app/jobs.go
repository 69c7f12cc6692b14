package app

import (
	"skillswap_backend/internal/service"
	"skillswap_backend/pkg/logger"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// statsJob 定时刷新交换申请统计缓存，配置热更新时重新调度
type statsJob struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	spec    string
	swaps   *service.SwapRequestService
}

func newStatsJob(swaps *service.SwapRequestService) *statsJob {
	return &statsJob{
		cron:  cron.New(),
		swaps: swaps,
	}
}

func (j *statsJob) run() {
	if err := j.swaps.RefreshStats(); err != nil {
		logger.Log.Error("Failed to refresh swap stats", zap.Error(err))
		return
	}
	logger.Log.Debug("Swap stats cache refreshed")
}

// schedule spec 为空时只移除已有任务
func (j *statsJob) schedule(spec string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if spec == j.spec && j.entryID != 0 {
		return
	}
	if j.entryID != 0 {
		j.cron.Remove(j.entryID)
		j.entryID = 0
	}
	j.spec = spec
	if spec == "" {
		return
	}

	id, err := j.cron.AddFunc(spec, j.run)
	if err != nil {
		logger.Log.Error("Invalid stats refresh schedule", zap.String("spec", spec), zap.Error(err))
		return
	}
	j.entryID = id
	logger.Log.Info("Swap stats refresh scheduled", zap.String("spec", spec))
}

func (j *statsJob) scheduled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.entryID != 0
}

func (j *statsJob) start() {
	j.cron.Start()
}

func (j *statsJob) stop() {
	<-j.cron.Stop().Done()
}
