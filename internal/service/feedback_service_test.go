package service

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/testutil"
	"skillswap_backend/internal/util"
	"testing"
	"time"
)

func feedbackInput(f *testutil.SwapFixture, swapID uint) CreateFeedbackInput {
	return CreateFeedbackInput{
		ReviewerID:    f.Requester.ID,
		RecipientID:   f.Provider.ID,
		SwapRequestID: swapID,
		Rating:        5,
		Comment:       "Great teacher",
	}
}

func TestCompleteThenFeedbackThenDuplicate(t *testing.T) {
	env := newTestEnv(t)
	f := testutil.NewSwapFixture(t, env.DB)
	req := f.CreateSwap(t, env.DB, model.SwapAccepted)

	if _, err := env.Swaps.Complete(req.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	fb, err := env.Feedback.Create(feedbackInput(f, req.ID))
	if err != nil {
		t.Fatalf("create feedback: %v", err)
	}
	if fb.CreatedAt.IsZero() {
		t.Error("createdAt should be set")
	}
	if fb.Rating != 5 || fb.RecipientID != f.Provider.ID {
		t.Errorf("unexpected feedback %+v", fb)
	}

	_, err = env.Feedback.Create(feedbackInput(f, req.ID))
	expectKind(t, err, util.KindDuplicate, "Feedback already exists")

	// 另一方仍然可以评价
	reverse := feedbackInput(f, req.ID)
	reverse.ReviewerID, reverse.RecipientID = f.Provider.ID, f.Requester.ID
	if _, err := env.Feedback.Create(reverse); err != nil {
		t.Fatalf("provider feedback: %v", err)
	}
}

func TestFeedbackToYourself(t *testing.T) {
	env := newTestEnv(t)
	f := testutil.NewSwapFixture(t, env.DB)
	req := f.CreateSwap(t, env.DB, model.SwapCompleted)

	in := feedbackInput(f, req.ID)
	in.RecipientID = in.ReviewerID
	_, err := env.Feedback.Create(in)
	expectKind(t, err, util.KindBadRequest, "Cannot give feedback to yourself.")
}

func TestFeedbackRequiresCompletedSwap(t *testing.T) {
	for _, status := range []model.SwapStatus{model.SwapPending, model.SwapAccepted, model.SwapRejected, model.SwapCancelled} {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv(t)
			f := testutil.NewSwapFixture(t, env.DB)
			req := f.CreateSwap(t, env.DB, status)

			_, err := env.Feedback.Create(feedbackInput(f, req.ID))
			expectKind(t, err, util.KindBadRequest, "Current status: "+string(status))
		})
	}
}

func TestFeedbackValidation(t *testing.T) {
	env := newTestEnv(t)
	f := testutil.NewSwapFixture(t, env.DB)
	req := f.CreateSwap(t, env.DB, model.SwapCompleted)
	outsider := testutil.CreateUser(t, env.DB, "mallory")

	tests := []struct {
		name    string
		mutate  func(*CreateFeedbackInput)
		kind    util.ErrorKind
		message string
	}{
		{"reviewer not a participant", func(in *CreateFeedbackInput) { in.ReviewerID = outsider.ID }, util.KindBadRequest, "Only participants"},
		{"recipient not a participant", func(in *CreateFeedbackInput) { in.RecipientID = outsider.ID }, util.KindBadRequest, "Recipient must be a participant"},
		{"rating too low", func(in *CreateFeedbackInput) { in.Rating = 0 }, util.KindBadRequest, "Rating must be between 1 and 5"},
		{"rating too high", func(in *CreateFeedbackInput) { in.Rating = 6 }, util.KindBadRequest, "Provided rating: 6"},
		{"unknown swap request", func(in *CreateFeedbackInput) { in.SwapRequestID = 777 }, util.KindNotFound, "SwapRequest not found"},
		{"unknown reviewer", func(in *CreateFeedbackInput) { in.ReviewerID = 777 }, util.KindNotFound, "User not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := feedbackInput(f, req.ID)
			tc.mutate(&in)
			_, err := env.Feedback.Create(in)
			expectKind(t, err, tc.kind, tc.message)
		})
	}
}

func TestAverageRatingIsNilWithoutFeedback(t *testing.T) {
	env := newTestEnv(t)
	f := testutil.NewSwapFixture(t, env.DB)

	avg, err := env.Feedback.AverageRating(f.Provider.ID)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg != nil {
		t.Fatalf("expected nil average, got %v", *avg)
	}

	_, err = env.Feedback.AverageRating(9999)
	expectKind(t, err, util.KindNotFound, "")
}

func TestAverageRatingIsMeanOfReceived(t *testing.T) {
	env := newTestEnv(t)
	f := testutil.NewSwapFixture(t, env.DB)

	for _, rating := range []int{5, 2} {
		req := f.CreateSwap(t, env.DB, model.SwapCompleted)
		in := feedbackInput(f, req.ID)
		in.Rating = rating
		if _, err := env.Feedback.Create(in); err != nil {
			t.Fatalf("create feedback: %v", err)
		}
	}

	avg, err := env.Feedback.AverageRating(f.Provider.ID)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg == nil || *avg != 3.5 {
		t.Fatalf("average = %v, want 3.5", avg)
	}
}

func TestFeedbackQueries(t *testing.T) {
	env := newTestEnv(t)
	f := testutil.NewSwapFixture(t, env.DB)
	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	for i, rating := range []int{1, 3, 5} {
		req := f.CreateSwap(t, env.DB, model.SwapCompleted)
		at := base.Add(time.Duration(i) * 24 * time.Hour)
		env.Feedback.Now = func() time.Time { return at }
		in := feedbackInput(f, req.ID)
		in.Rating = rating
		if _, err := env.Feedback.Create(in); err != nil {
			t.Fatalf("create feedback: %v", err)
		}
	}

	low, _ := env.Feedback.ListRatingAtMost(2)
	if len(low) != 1 || low[0].Rating != 1 {
		t.Errorf("low ratings = %+v", low)
	}
	high, _ := env.Feedback.ListRatingAtLeast(3)
	if len(high) != 2 {
		t.Errorf("high ratings = %d, want 2", len(high))
	}
	inRange, err := env.Feedback.ListCreatedBetween(base, base.Add(24*time.Hour))
	if err != nil || len(inRange) != 2 {
		t.Errorf("range = %d, err = %v", len(inRange), err)
	}
	_, err = env.Feedback.ListCreatedBetween(base, base.Add(-time.Hour))
	expectKind(t, err, util.KindBadRequest, "")

	given, _ := env.Feedback.ListGiven(f.Requester.ID)
	received, _ := env.Feedback.ListReceived(f.Requester.ID)
	if len(given) != 3 || len(received) != 0 {
		t.Errorf("given = %d, received = %d", len(given), len(received))
	}
}

func TestDeleteFeedback(t *testing.T) {
	env := newTestEnv(t)
	f := testutil.NewSwapFixture(t, env.DB)
	req := f.CreateSwap(t, env.DB, model.SwapCompleted)

	fb, err := env.Feedback.Create(feedbackInput(f, req.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := env.Feedback.Delete(fb.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	expectKind(t, env.Feedback.Delete(fb.ID), util.KindNotFound, "Feedback not found")

	// 删除后可以重新评价
	if _, err := env.Feedback.Create(feedbackInput(f, req.ID)); err != nil {
		t.Fatalf("recreate: %v", err)
	}
}
