package util

import (
	"skillswap_backend/internal/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT(&model.User{Username: "alice"}, "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Username != "alice" || claims.Subject != "alice" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Fatal("expected signature error with wrong secret")
	}
}

func TestParseJWTRejectsExpiredAndForeignAlgorithms(t *testing.T) {
	expired, err := GenerateJWT(&model.User{Username: "alice"}, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseJWT(expired, "secret"); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "alice"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseJWT(unsigned, "secret"); err == nil {
		t.Fatal("expected alg none to be rejected")
	}
}

func TestPrincipalCanView(t *testing.T) {
	public := &model.User{IsPublic: true}
	public.ID = 1
	private := &model.User{IsPublic: false}
	private.ID = 2

	var anonymous *Principal
	if !anonymous.CanView(public) || anonymous.CanView(private) {
		t.Fatal("anonymous callers see public profiles only")
	}

	owner := &Principal{UserID: 2}
	if !owner.CanView(private) || !owner.Owns(2) || owner.Owns(1) {
		t.Fatal("owner must see own private profile")
	}

	admin := &Principal{UserID: 9, IsAdmin: true}
	if !admin.CanView(private) {
		t.Fatal("admin must see private profiles")
	}
}
