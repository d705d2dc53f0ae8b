package auth

import (
	"context"
	"errors"
	"testing"

	"shoeshop/internal/repository/memory"
	"shoeshop/internal/seed"
)

func newService(t *testing.T) *Service {
	t.Helper()
	repo := memory.New(nil)
	if err := seed.Apply(context.Background(), repo); err != nil {
		t.Fatalf("seed repository: %v", err)
	}
	return New(repo)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	u, err := svc.Register(ctx, "newbie", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "newbie" {
		t.Errorf("username = %q, want newbie", u.Username)
	}
	if u.PasswordHash == "Sup3rSecret" {
		t.Error("password stored in the clear")
	}

	logged, token, err := svc.Login(ctx, "newbie", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.Username != "newbie" || token == "" {
		t.Errorf("Login returned user %q, token %q", logged.Username, token)
	}
}

func TestRegisterTakenUsername(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if _, err := svc.Register(ctx, "irem", "Sup3rSecret"); !errors.Is(err, ErrNameNotUnique) {
		t.Fatalf("Register(taken) error = %v, want ErrNameNotUnique", err)
	}

	// The seeded user must still be able to log in with her original password.
	if _, _, err := svc.Login(ctx, "irem", "MSra(Z8G+sgb"); err != nil {
		t.Errorf("Login after failed re-register: %v", err)
	}
}

func TestRegisterPasswordPolicy(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	cases := []struct {
		name     string
		password string
	}{
		{"TooShort", "Ab1"},
		{"NoUppercase", "alllower123"},
		{"NoLowercase", "ALLUPPER123"},
		{"NoDigit", "NoDigitsHere"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, "policy-user", tc.password); err == nil {
				t.Fatalf("Register accepted weak password %q", tc.password)
			}
		})
	}

	// None of the failed attempts may have claimed the username.
	if _, err := svc.Register(ctx, "policy-user", "Sup3rSecret"); err != nil {
		t.Fatalf("Register after rejected attempts: %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if _, _, err := svc.Login(ctx, "irem", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login(wrong password) error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "MSra(Z8G+sgb"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login(unknown user) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, token, err := svc.Login(ctx, "tobin", "cLQ^C#oFXloS")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	u, err := svc.LookupByToken(ctx, token)
	if err != nil {
		t.Fatalf("LookupByToken: %v", err)
	}
	if u.Username != "tobin" {
		t.Errorf("token resolved to %q, want tobin", u.Username)
	}

	if _, err := svc.LookupByToken(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("LookupByToken(garbage) error = %v, want ErrInvalidToken", err)
	}

	svc.Logout(ctx, token)
	if _, err := svc.LookupByToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("LookupByToken after logout error = %v, want ErrInvalidToken", err)
	}

	// Revoking twice is a no-op.
	svc.Logout(ctx, token)
}
