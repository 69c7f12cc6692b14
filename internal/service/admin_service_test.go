package service

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/testutil"
	"testing"
)

func TestUserActivityReport(t *testing.T) {
	env := newTestEnv(t)
	f := testutil.NewSwapFixture(t, env.DB)
	testutil.CreateUser(t, env.DB, "root", func(u *model.User) { u.IsAdmin = true })
	testutil.CreateSkill(t, env.DB, f.Requester, "Chess", true, false)

	f.CreateSwap(t, env.DB, model.SwapPending)
	done := f.CreateSwap(t, env.DB, model.SwapCompleted)
	if _, err := env.Feedback.Create(CreateFeedbackInput{
		ReviewerID:    f.Requester.ID,
		RecipientID:   f.Provider.ID,
		SwapRequestID: done.ID,
		Rating:        4,
	}); err != nil {
		t.Fatalf("feedback: %v", err)
	}

	report, err := env.Admin.UserActivityReport()
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if report.TotalUsers != 3 || report.TotalAdmins != 1 {
		t.Errorf("users = %d, admins = %d", report.TotalUsers, report.TotalAdmins)
	}
	if report.TotalSkills != 3 || report.PendingSkills != 1 {
		t.Errorf("skills = %d, pending = %d", report.TotalSkills, report.PendingSkills)
	}
	want := SwapStats{Pending: 1, Completed: 1}
	if report.SwapRequestStats != want {
		t.Errorf("swap stats = %+v, want %+v", report.SwapRequestStats, want)
	}
	if report.TotalFeedback != 1 {
		t.Errorf("feedback = %d", report.TotalFeedback)
	}
}
