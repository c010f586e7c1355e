package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"ride-sharing/internal/auth-service/core/domain/dto"
	"ride-sharing/internal/auth-service/core/domain/model"
	"ride-sharing/internal/auth-service/core/myerrors"
	"ride-sharing/internal/mylogger"
)

type memUserRepo struct {
	users map[string]model.User // keyed by username
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]model.User)}
}

func (m *memUserRepo) Create(ctx context.Context, user model.User) error {
	m.users[user.Username] = user
	return nil
}

func (m *memUserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	u, ok := m.users[username]
	if !ok {
		return model.User{}, myerrors.ErrUserNotFound
	}
	return u, nil
}

func (m *memUserRepo) UpdateRole(ctx context.Context, username, role string) (model.User, error) {
	u, ok := m.users[username]
	if !ok {
		return model.User{}, myerrors.ErrUserNotFound
	}
	u.Role = role
	m.users[username] = u
	return u, nil
}

type recordingBroker struct {
	keys     []string
	payloads []any
	err      error
}

func (b *recordingBroker) PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error {
	if b.err != nil {
		return b.err
	}
	b.keys = append(b.keys, routingKey)
	b.payloads = append(b.payloads, msg)
	return nil
}

func newTestService(repo *memUserRepo, broker *recordingBroker) *AuthService {
	log := mylogger.NewWithWriter("error", "auth-service", io.Discard)
	tokens := NewTokenManager("test-secret")
	return NewAuthService(context.Background(), log, repo, broker, tokens).(*AuthService)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestService(repo, &recordingBroker{})

	reg, err := svc.Register(dto.RegisterRequestDto{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.User.Username != "alice" || reg.User.ID == "" {
		t.Errorf("bad registered user: %+v", reg.User)
	}
	if stored := repo.users["alice"]; stored.PasswordHash == "secret" || stored.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	logged, err := svc.Login(dto.LoginRequestDto{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.Token == "" {
		t.Fatal("login must return a token")
	}

	user, err := svc.VerifyToken(logged.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.Username != "alice" || user.ID != reg.User.ID {
		t.Errorf("token claims do not match the account: %+v", user)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(newMemUserRepo(), &recordingBroker{})

	if _, err := svc.Register(dto.RegisterRequestDto{Username: "alice", Password: "a"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(dto.RegisterRequestDto{Username: "alice", Password: "b"})
	if !errors.Is(err, myerrors.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(newMemUserRepo(), &recordingBroker{})
	if _, err := svc.Register(dto.RegisterRequestDto{Username: "alice", Password: "secret"}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Login(dto.LoginRequestDto{Username: "alice", Password: "wrong"})
	if !errors.Is(err, myerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(newMemUserRepo(), &recordingBroker{})

	_, err := svc.Login(dto.LoginRequestDto{Username: "ghost", Password: "x"})
	if !errors.Is(err, myerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSetRolePublishesAndReissuesToken(t *testing.T) {
	repo := newMemUserRepo()
	broker := &recordingBroker{}
	svc := newTestService(repo, broker)
	if _, err := svc.Register(dto.RegisterRequestDto{Username: "bob", Password: "secret"}); err != nil {
		t.Fatal(err)
	}
	logged, err := svc.Login(dto.LoginRequestDto{Username: "bob", Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := svc.SetRole(logged.Token, dto.SetRoleRequestDto{Username: "bob", Role: "driver"})
	if err != nil {
		t.Fatalf("set-role: %v", err)
	}
	if resp.User.Role != "driver" {
		t.Errorf("role not updated: %+v", resp.User)
	}

	user, err := svc.VerifyToken(resp.Token)
	if err != nil {
		t.Fatalf("verify new token: %v", err)
	}
	if user.Role != "driver" {
		t.Errorf("new token must carry the new role, got %q", user.Role)
	}

	if len(broker.keys) != 1 || broker.keys[0] != "user.role.updated" {
		t.Errorf("expected one user.role.updated event, got %v", broker.keys)
	}
}

func TestSetRoleOnlyOwnAccount(t *testing.T) {
	svc := newTestService(newMemUserRepo(), &recordingBroker{})
	for _, name := range []string{"bob", "eve"} {
		if _, err := svc.Register(dto.RegisterRequestDto{Username: name, Password: "secret"}); err != nil {
			t.Fatal(err)
		}
	}
	logged, err := svc.Login(dto.LoginRequestDto{Username: "eve", Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.SetRole(logged.Token, dto.SetRoleRequestDto{Username: "bob", Role: "driver"})
	if !errors.Is(err, myerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSetRoleRejectsUnknownRole(t *testing.T) {
	svc := newTestService(newMemUserRepo(), &recordingBroker{})
	if _, err := svc.Register(dto.RegisterRequestDto{Username: "bob", Password: "secret"}); err != nil {
		t.Fatal(err)
	}
	logged, err := svc.Login(dto.LoginRequestDto{Username: "bob", Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.SetRole(logged.Token, dto.SetRoleRequestDto{Username: "bob", Role: "admin"})
	if !errors.Is(err, myerrors.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSetRoleSurvivesPublishFailure(t *testing.T) {
	svc := newTestService(newMemUserRepo(), &recordingBroker{err: errors.New("broker down")})
	if _, err := svc.Register(dto.RegisterRequestDto{Username: "bob", Password: "secret"}); err != nil {
		t.Fatal(err)
	}
	logged, err := svc.Login(dto.LoginRequestDto{Username: "bob", Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := svc.SetRole(logged.Token, dto.SetRoleRequestDto{Username: "bob", Role: "driver"})
	if err != nil {
		t.Fatalf("publish failure must not fail the role change: %v", err)
	}
	if resp.User.Role != "driver" {
		t.Errorf("role not updated: %+v", resp.User)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(newMemUserRepo(), &recordingBroker{})

	for _, tok := range []string{"", "not-a-jwt", strings.Repeat("a.", 2) + "a"} {
		if _, err := svc.VerifyToken(tok); !errors.Is(err, myerrors.ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	ours := NewTokenManager("our-secret")
	theirs := NewTokenManager("their-secret")

	token, err := theirs.Sign("u1", "mallory", "driver")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ours.Parse(token); !errors.Is(err, myerrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
