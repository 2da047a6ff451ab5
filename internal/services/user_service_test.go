package services

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewUserService(newMemDB())
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Error("password stored without hashing")
	}

	got, err := svc.Authenticate(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated id = %q, want %q", got.ID, user.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewUserService(newMemDB())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "pw2"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate register: err = %v", err)
	}
}
