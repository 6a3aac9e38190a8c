package service

import (
	"context"
	"errors"
	"testing"

	"github.com/connect4change/platform/internal/config"
	"github.com/connect4change/platform/internal/domain"
	apperrors "github.com/connect4change/platform/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4, // minimum cost keeps the suite fast
		},
	}
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username: "asha",
		Email:    "asha@example.org",
		Password: "hunter22",
		Role:     domain.RoleVolunteer,
		Location: domain.Point{Lng: 77.59, Lat: 12.97},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	users := newMemUserRepo()
	svc := NewAuthService(testConfig(), users)
	ctx := context.Background()

	user, token, _, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Error("expected user id to be assigned")
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if user.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}

	logged, token2, _, err := svc.Login(ctx, "asha@example.org", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login returned user %s, want %s", logged.ID, user.ID)
	}
	if token2 == "" {
		t.Error("expected a session token on login")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	users := newMemUserRepo()
	svc := NewAuthService(testConfig(), users)
	ctx := context.Background()

	if _, _, _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	input := validRegisterInput()
	input.Username = "different"
	_, _, _, err := svc.Register(ctx, input)
	assertCode(t, err, "CONFLICT")

	input = validRegisterInput()
	input.Email = "other@example.org"
	_, _, _, err = svc.Register(ctx, input)
	assertCode(t, err, "CONFLICT")
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(testConfig(), newMemUserRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"short password", func(in *RegisterInput) { in.Password = "abc" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"bad role", func(in *RegisterInput) { in.Role = "admin" }},
		{"bad coords", func(in *RegisterInput) { in.Location.Lat = 91 }},
		{"empty username", func(in *RegisterInput) { in.Username = "  " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validRegisterInput()
			tc.mutate(&input)
			_, _, _, err := svc.Register(ctx, input)
			assertCode(t, err, "VALIDATION_FAILED")
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	users := newMemUserRepo()
	svc := NewAuthService(testConfig(), users)
	ctx := context.Background()

	if _, _, _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, _, errUnknown := svc.Login(ctx, "nobody@example.org", "hunter22")
	_, _, _, errWrongPass := svc.Login(ctx, "asha@example.org", "wrong-password")

	for _, err := range []error{errUnknown, errWrongPass} {
		assertCode(t, err, "UNAUTHORIZED")
	}

	var a, b *apperrors.DomainError
	errors.As(errUnknown, &a)
	errors.As(errWrongPass, &b)
	if a.Message != b.Message {
		t.Errorf("login failures differ: %q vs %q", a.Message, b.Message)
	}
}

func TestRegisterKeepsOnlyMatchingProfileBranch(t *testing.T) {
	users := newMemUserRepo()
	svc := NewAuthService(testConfig(), users)
	ctx := context.Background()

	input := validRegisterInput()
	input.Role = domain.RoleNgo
	input.Profile = domain.Profile{
		Ngo:       &domain.NgoProfile{OrgName: "Green Earth"},
		Volunteer: &domain.VolunteerProfile{Occupation: "stray"},
	}

	user, _, _, err := svc.Register(ctx, input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Profile.Ngo == nil || user.Profile.Ngo.OrgName != "Green Earth" {
		t.Error("ngo profile branch not kept")
	}
	if user.Profile.Volunteer != nil {
		t.Error("mismatched profile branch should be dropped")
	}
	if got := user.DisplayName(); got != "Green Earth" {
		t.Errorf("display name = %q, want org name", got)
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if domainErr.Code != code {
		t.Fatalf("error code = %s, want %s (%v)", domainErr.Code, code, err)
	}
}
