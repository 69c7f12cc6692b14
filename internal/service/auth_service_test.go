package service

import (
	"skillswap_backend/internal/testutil"
	"skillswap_backend/internal/util"
	"testing"
)

func registerInput(username string) RegisterInput {
	return RegisterInput{
		Username:     username,
		Password:     "secret123",
		Name:         "Alice",
		Location:     "Berlin",
		Availability: "Weekends",
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.Auth.Register(registerInput("alice"))
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if res.Token == "" || res.User.ID == 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.User.IsAdmin || !res.User.IsActive || !res.User.IsPublic {
		t.Fatalf("unexpected default flags %+v", res.User)
	}
	if res.User.Password == "secret123" {
		t.Fatal("password should be hashed")
	}

	_, err = env.Auth.Register(registerInput("alice"))
	expectKind(t, err, util.KindDuplicate, "User already exists with username : 'alice'")
}

func TestRegisterPrivateProfile(t *testing.T) {
	env := newTestEnv(t)
	private := false
	in := registerInput("bob")
	in.IsPublic = &private

	res, err := env.Auth.Register(in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.IsPublic {
		t.Fatal("profile should be private")
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Auth.Register(registerInput("alice")); err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := env.Auth.Login("alice", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := util.ParseJWT(res.Token, "test-secret")
	if err != nil || claims.Username != "alice" {
		t.Fatalf("token claims = %+v, err = %v", claims, err)
	}

	_, err = env.Auth.Login("alice", "wrong")
	expectKind(t, err, util.KindUnauthorized, "Invalid username or password")

	_, err = env.Auth.Login("nobody", "secret123")
	expectKind(t, err, util.KindUnauthorized, "Invalid username or password")
}

func TestLoginDeactivatedUser(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.Auth.Register(registerInput("alice"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := env.Users.Deactivate(res.User.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = env.Auth.Login("alice", "secret123")
	expectKind(t, err, util.KindUnauthorized, "deactivated")
}

func TestRegisterTakenBySeededUser(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.DB, "admin")

	_, err := env.Auth.Register(registerInput("admin"))
	expectKind(t, err, util.KindDuplicate, "admin")
}
