package repository

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/testutil"
	"testing"
)

func TestSkillUpdatePersistsFalseFlags(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSkillRepository(db)
	user := testutil.CreateUser(t, db, "alice")
	skill := testutil.CreateSkill(t, db, user, "Go", true, true)

	skill.IsOffered = false
	skill.IsApproved = false
	skill.Description = ""
	if err := repo.Update(skill); err != nil {
		t.Fatalf("update: %v", err)
	}

	var stored model.Skill
	db.First(&stored, skill.ID)
	if stored.IsOffered || stored.IsApproved {
		t.Fatalf("false values should be written, got %+v", stored)
	}
}

func TestCountSwapReferences(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSkillRepository(db)
	f := testutil.NewSwapFixture(t, db)
	f.CreateSwap(t, db, model.SwapPending)

	n, err := repo.CountSwapReferences(f.RequestedSkill.ID)
	if err != nil || n != 1 {
		t.Fatalf("requested refs = %d, err = %v", n, err)
	}
	n, _ = repo.CountSwapReferences(f.OfferedSkill.ID)
	if n != 1 {
		t.Fatalf("offered refs = %d", n)
	}
}
