package service

import (
	"errors"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/testutil"
	"skillswap_backend/internal/util"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
)

type testEnv struct {
	DB       *gorm.DB
	Auth     *AuthService
	Users    *UserService
	Skills   *SkillService
	Swaps    *SwapRequestService
	Feedback *FeedbackService
	Admin    *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)

	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	swapRepo := repository.NewSwapRequestRepository(db, nil)
	feedbackRepo := repository.NewFeedbackRepository(db, nil)

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}

	return &testEnv{
		DB:       db,
		Auth:     NewAuthService(userRepo, cfg),
		Users:    NewUserService(userRepo),
		Skills:   NewSkillService(db, skillRepo, userRepo),
		Swaps:    NewSwapRequestService(db, swapRepo, skillRepo, userRepo),
		Feedback: NewFeedbackService(db, feedbackRepo, swapRepo, userRepo),
		Admin:    NewAdminService(userRepo, skillRepo, swapRepo, feedbackRepo),
	}
}

// expectKind 断言错误类型，message 非空时还要求包含该片段
func expectKind(t *testing.T, err error, kind util.ErrorKind, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var appErr *util.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%q)", kind, appErr.Kind, appErr.Message)
	}
	if message != "" && !strings.Contains(appErr.Message, message) {
		t.Fatalf("expected message containing %q, got %q", message, appErr.Message)
	}
}
