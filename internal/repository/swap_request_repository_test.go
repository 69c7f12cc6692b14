package repository

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/testutil"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestUpdateStatusIfOnlyFromAllowedStates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSwapRequestRepository(db, nil)
	f := testutil.NewSwapFixture(t, db)
	req := f.CreateSwap(t, db, model.SwapPending)

	now := time.Now()
	ok, err := repo.UpdateStatusIf(req.ID, []model.SwapStatus{model.SwapPending}, model.SwapAccepted, &now)
	if err != nil || !ok {
		t.Fatalf("first update ok = %v, err = %v", ok, err)
	}

	// 已不是 PENDING，第二次条件更新不生效
	ok, err = repo.UpdateStatusIf(req.ID, []model.SwapStatus{model.SwapPending}, model.SwapRejected, &now)
	if err != nil || ok {
		t.Fatalf("second update ok = %v, err = %v", ok, err)
	}

	got, _ := repo.FindByID(req.ID)
	if got.Status != model.SwapAccepted || got.ResponseDate == nil {
		t.Fatalf("stored = %+v", got)
	}
}

func TestUpdateStatusIfWithoutResponseDate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSwapRequestRepository(db, nil)
	f := testutil.NewSwapFixture(t, db)
	req := f.CreateSwap(t, db, model.SwapAccepted)

	ok, err := repo.UpdateStatusIf(req.ID, []model.SwapStatus{model.SwapPending, model.SwapAccepted}, model.SwapCancelled, nil)
	if err != nil || !ok {
		t.Fatalf("ok = %v, err = %v", ok, err)
	}
	got, _ := repo.FindByID(req.ID)
	if got.ResponseDate != nil {
		t.Fatalf("responseDate should stay nil, got %v", got.ResponseDate)
	}
}

func TestStatsCachedUsesRedisHash(t *testing.T) {
	db := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)
	repo := NewSwapRequestRepository(db, rdb)
	f := testutil.NewSwapFixture(t, db)
	f.CreateSwap(t, db, model.SwapPending)

	stats, err := repo.StatsCached()
	if err != nil || stats[model.SwapPending] != 1 {
		t.Fatalf("stats = %v, err = %v", stats, err)
	}
	if v := mr.HGet(swapStatsKey, "PENDING"); v != "1" {
		t.Fatalf("cached PENDING = %q", v)
	}
	if ttl := mr.TTL(swapStatsKey); ttl <= 0 {
		t.Fatalf("stats cache should expire, ttl = %v", ttl)
	}

	// 直接写库不会更新缓存，直到失效
	f.CreateSwap(t, db, model.SwapPending)
	stats, _ = repo.StatsCached()
	if stats[model.SwapPending] != 1 {
		t.Fatalf("expected cached value 1, got %d", stats[model.SwapPending])
	}

	repo.InvalidateStats()
	stats, _ = repo.StatsCached()
	if stats[model.SwapPending] != 2 {
		t.Fatalf("expected fresh value 2, got %d", stats[model.SwapPending])
	}
}

func TestRefreshStatsCacheSkipsWriteAfterInvalidate(t *testing.T) {
	db := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)
	repo := NewSwapRequestRepository(db, rdb)
	f := testutil.NewSwapFixture(t, db)
	f.CreateSwap(t, db, model.SwapPending)

	// 统计查询完成后、写缓存前发生一次状态迁移
	fired := false
	err := db.Callback().Row().After("gorm:row").Register("test:invalidate_stats", func(*gorm.DB) {
		if !fired {
			fired = true
			repo.InvalidateStats()
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	stats, err := repo.RefreshStatsCache()
	if err != nil || stats[model.SwapPending] != 1 {
		t.Fatalf("stats = %v, err = %v", stats, err)
	}
	if !fired {
		t.Fatal("callback did not run during the stats query")
	}
	if mr.Exists(swapStatsKey) {
		t.Fatal("stats read before the invalidation must not be cached")
	}

	if _, err := repo.StatsCached(); err != nil {
		t.Fatalf("StatsCached: %v", err)
	}
	if v := mr.HGet(swapStatsKey, "PENDING"); v != "1" {
		t.Fatalf("cached PENDING = %q", v)
	}
}

func TestStatsCachedFallsBackWhenRedisDown(t *testing.T) {
	db := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)
	repo := NewSwapRequestRepository(db, rdb)
	f := testutil.NewSwapFixture(t, db)
	f.CreateSwap(t, db, model.SwapCompleted)

	mr.Close()
	stats, err := repo.StatsCached()
	if err != nil || stats[model.SwapCompleted] != 1 {
		t.Fatalf("stats = %v, err = %v", stats, err)
	}
	repo.InvalidateStats()
}

func TestFindByUserCoversBothRoles(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSwapRequestRepository(db, nil)
	f := testutil.NewSwapFixture(t, db)
	f.CreateSwap(t, db, model.SwapPending)

	for _, u := range []uint{f.Requester.ID, f.Provider.ID} {
		reqs, err := repo.FindByUser(u)
		if err != nil || len(reqs) != 1 {
			t.Fatalf("user %d: %d requests, err = %v", u, len(reqs), err)
		}
	}
	other := testutil.CreateUser(t, db, "carol")
	reqs, _ := repo.FindByUser(other.ID)
	if len(reqs) != 0 {
		t.Fatalf("outsider sees %d requests", len(reqs))
	}
}
