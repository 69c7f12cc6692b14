package util

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestAppErrorIsMatchesKind(t *testing.T) {
	err := ErrResourceNotFound("User", "id", 7)
	if err.Error() != "User not found with id : '7'" {
		t.Fatalf("message = %q", err.Error())
	}
	if !errors.Is(err, &AppError{Kind: KindNotFound}) {
		t.Fatal("expected errors.Is to match the NotFound kind")
	}
	if errors.Is(err, &AppError{Kind: KindBadRequest}) {
		t.Fatal("NotFound must not match BadRequest")
	}

	wrapped := fmt.Errorf("loading: %w", BadRequestf("Rating must be between %d and %d", MinRating, MaxRating))
	if KindOf(wrapped) != KindBadRequest {
		t.Fatalf("KindOf = %s, want bad_request", KindOf(wrapped))
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatal("plain errors are internal")
	}
}

func TestNotFoundOr(t *testing.T) {
	err := NotFoundOr(gorm.ErrRecordNotFound, "Skill", "id", 3)
	if KindOf(err) != KindNotFound || err.Error() != "Skill not found with id : '3'" {
		t.Fatalf("unexpected error %v", err)
	}

	other := errors.New("connection reset")
	if NotFoundOr(other, "Skill", "id", 3) != other {
		t.Fatal("non record-not-found errors must pass through")
	}
}

func TestErrDuplicateResource(t *testing.T) {
	err := ErrDuplicateResource("Feedback", "reviewer and swap request", "1 and 2")
	if err.Kind != KindDuplicate {
		t.Fatalf("kind = %s", err.Kind)
	}
	if err.Error() != "Feedback already exists with reviewer and swap request : '1 and 2'" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 20},
		{-3, 10, 1, 10},
		{2, 100, 2, 100},
		{5, 101, 5, 20},
	}
	for _, c := range cases {
		p, l := NormalizePage(c.page, c.limit)
		if p != c.wantPage || l != c.wantLimit {
			t.Errorf("NormalizePage(%d, %d) = %d, %d; want %d, %d", c.page, c.limit, p, l, c.wantPage, c.wantLimit)
		}
	}
}
