package database

import (
	"fmt"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/model"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := Dialector(&config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestDialectorSelectsDriver(t *testing.T) {
	tests := map[string]string{
		"":         "mysql",
		"mysql":    "mysql",
		"postgres": "postgres",
		"sqlite":   "sqlite",
	}
	for driver, want := range tests {
		d, err := Dialector(&config.DatabaseConfig{Driver: driver, Path: "file::memory:"})
		if err != nil {
			t.Fatalf("driver %q: %v", driver, err)
		}
		if d.Name() != want {
			t.Errorf("driver %q: got dialector %q, want %q", driver, d.Name(), want)
		}
	}
}

func TestSQLiteDSNEnablesForeignKeys(t *testing.T) {
	if got := SQLiteDSN("app.db"); got != "app.db?_foreign_keys=on" {
		t.Errorf("SQLiteDSN(app.db) = %q", got)
	}
	if got := SQLiteDSN("file:x?mode=memory"); got != "file:x?mode=memory&_foreign_keys=on" {
		t.Errorf("SQLiteDSN with query = %q", got)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	cfg := &config.SeedConfig{AdminPassword: "admin123", SystemPassword: "system123"}

	if err := Seed(db, cfg); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(db, cfg); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var users int64
	db.Model(&model.User{}).Count(&users)
	if users != 2 {
		t.Fatalf("expected 2 seed users, got %d", users)
	}

	var admin model.User
	if err := db.Where("username = ?", AdminUsername).First(&admin).Error; err != nil {
		t.Fatalf("admin not found: %v", err)
	}
	if !admin.IsAdmin || !admin.IsActive {
		t.Errorf("admin flags wrong: %+v", admin)
	}

	var skills int64
	db.Model(&model.Skill{}).Count(&skills)
	if want := int64(2 * len(PredefinedSkills)); skills != want {
		t.Fatalf("expected %d seeded skills, got %d", want, skills)
	}

	var unapproved int64
	db.Model(&model.Skill{}).Where("is_approved = ?", false).Count(&unapproved)
	if unapproved != 0 {
		t.Errorf("seeded skills should all be approved, %d are not", unapproved)
	}
}

func TestDeletingUserCascadesSkills(t *testing.T) {
	db := openTestDB(t)

	user := &model.User{Username: "bob", Password: "x", Name: "Bob", Availability: "Weekends", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	skill := &model.Skill{Name: "Go", IsOffered: true, UserID: user.ID}
	if err := db.Create(skill).Error; err != nil {
		t.Fatalf("create skill: %v", err)
	}

	if err := db.Delete(&model.User{}, user.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var count int64
	db.Model(&model.Skill{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected skills to be cascade deleted, %d remain", count)
	}
}
