// Package testutil 测试用的内存数据库和固定数据
package testutil

import (
	"fmt"
	"skillswap_backend/internal/model"
	"skillswap_backend/pkg/database"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB 每个测试独立的内存数据库，已完成迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := database.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewRedis 基于 miniredis 的客户端
func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func CreateUser(t *testing.T, db *gorm.DB, username string, mutate ...func(*model.User)) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Password:     "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva",
		Name:         strings.ToUpper(username[:1]) + username[1:],
		Availability: "Weekends",
		IsPublic:     true,
		IsActive:     true,
	}
	for _, m := range mutate {
		m(user)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func CreateSkill(t *testing.T, db *gorm.DB, owner *model.User, name string, offered, approved bool) *model.Skill {
	t.Helper()
	skill := &model.Skill{
		Name:       name,
		IsOffered:  offered,
		IsApproved: approved,
		UserID:     owner.ID,
	}
	if err := db.Create(skill).Error; err != nil {
		t.Fatalf("create skill %s: %v", name, err)
	}
	return skill
}

// SwapFixture 两个用户和各自一个已审核的 offered 技能
type SwapFixture struct {
	Requester      *model.User
	Provider       *model.User
	OfferedSkill   *model.Skill
	RequestedSkill *model.Skill
}

func NewSwapFixture(t *testing.T, db *gorm.DB) *SwapFixture {
	t.Helper()
	requester := CreateUser(t, db, "alice")
	provider := CreateUser(t, db, "bob")
	return &SwapFixture{
		Requester:      requester,
		Provider:       provider,
		OfferedSkill:   CreateSkill(t, db, requester, "Go", true, true),
		RequestedSkill: CreateSkill(t, db, provider, "Guitar", true, true),
	}
}

// CreateSwap 直接写入指定状态的交换申请
func (f *SwapFixture) CreateSwap(t *testing.T, db *gorm.DB, status model.SwapStatus) *model.SwapRequest {
	t.Helper()
	req := &model.SwapRequest{
		RequesterID:      f.Requester.ID,
		ProviderID:       f.Provider.ID,
		RequestedSkillID: f.RequestedSkill.ID,
		OfferedSkillID:   f.OfferedSkill.ID,
		Message:          "Let's swap",
		RequestDate:      nowUTC(),
		Status:           status,
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("create swap request: %v", err)
	}
	return req
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
