package repository

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/testutil"
	"testing"
	"time"
)

func addFeedback(t *testing.T, repo *FeedbackRepository, f *testutil.SwapFixture, swapID uint, rating int) *model.Feedback {
	t.Helper()
	fb := &model.Feedback{
		ReviewerID:    f.Requester.ID,
		RecipientID:   f.Provider.ID,
		SwapRequestID: swapID,
		Rating:        rating,
		CreatedAt:     time.Now(),
	}
	if err := repo.Create(fb); err != nil {
		t.Fatalf("create feedback: %v", err)
	}
	return fb
}

func TestAverageRatingCachedStoresNoneMarker(t *testing.T) {
	db := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)
	repo := NewFeedbackRepository(db, rdb)
	f := testutil.NewSwapFixture(t, db)

	avg, err := repo.AverageRatingCached(f.Provider.ID)
	if err != nil || avg != nil {
		t.Fatalf("avg = %v, err = %v", avg, err)
	}
	got, err := mr.Get(ratingKey(f.Provider.ID))
	if err != nil || got != noRatingMarker {
		t.Fatalf("cached value = %q, err = %v", got, err)
	}

	// 命中占位值时不查库
	avg, err = repo.AverageRatingCached(f.Provider.ID)
	if err != nil || avg != nil {
		t.Fatalf("second read avg = %v, err = %v", avg, err)
	}
}

func TestAverageRatingCacheInvalidatedOnWrite(t *testing.T) {
	db := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)
	repo := NewFeedbackRepository(db, rdb)
	f := testutil.NewSwapFixture(t, db)

	if _, err := repo.AverageRatingCached(f.Provider.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	swap := f.CreateSwap(t, db, model.SwapCompleted)
	fb := addFeedback(t, repo, f, swap.ID, 4)
	if mr.Exists(ratingKey(f.Provider.ID)) {
		t.Fatal("create should invalidate the cached average")
	}

	avg, err := repo.AverageRatingCached(f.Provider.ID)
	if err != nil || avg == nil || *avg != 4 {
		t.Fatalf("avg = %v, err = %v", avg, err)
	}
	if got, _ := mr.Get(ratingKey(f.Provider.ID)); got != "4" {
		t.Fatalf("cached value = %q", got)
	}

	if err := repo.Delete(fb); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists(ratingKey(f.Provider.ID)) {
		t.Fatal("delete should invalidate the cached average")
	}
}

func TestAverageRatingWithoutRedis(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFeedbackRepository(db, nil)
	f := testutil.NewSwapFixture(t, db)

	for _, r := range []int{1, 2} {
		swap := f.CreateSwap(t, db, model.SwapCompleted)
		addFeedback(t, repo, f, swap.ID, r)
	}

	avg, err := repo.AverageRatingCached(f.Provider.ID)
	if err != nil || avg == nil || *avg != 1.5 {
		t.Fatalf("avg = %v, err = %v", avg, err)
	}
}

func TestFeedbackUniquePerReviewerAndSwap(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFeedbackRepository(db, nil)
	f := testutil.NewSwapFixture(t, db)
	swap := f.CreateSwap(t, db, model.SwapCompleted)

	addFeedback(t, repo, f, swap.ID, 5)
	err := repo.Create(&model.Feedback{
		ReviewerID:    f.Requester.ID,
		RecipientID:   f.Provider.ID,
		SwapRequestID: swap.ID,
		Rating:        3,
		CreatedAt:     time.Now(),
	})
	if err == nil {
		t.Fatal("expected unique index violation")
	}
}
