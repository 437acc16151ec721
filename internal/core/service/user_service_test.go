package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

func newUserSvc(users *stubUserRepo, cats *stubCatRepo, cache *stubCache) *UserService {
	var c ports.UserCache
	if cache != nil {
		c = cache
	}
	svc := NewUserService(users, cats, c, NewTokenManager("secret", time.Hour), discardLogger)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestUserService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo, newStubCatRepo(), nil)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		UserName: "alice",
		Email:    " A@X.io ",
		Password: "pw123456",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "a@x.io" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role user, got %s", user.Role)
	}
	if user.PasswordHash == "pw123456" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123456")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Register_NeverSerializesPassword(t *testing.T) {
	svc := newUserSvc(newStubUserRepo(), newStubCatRepo(), nil)

	user, err := svc.Register(context.Background(), ports.RegisterInput{UserName: "Tom", Email: "t@x.io", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	raw, _ := json.Marshal(user)
	if strings.Contains(string(raw), "password") || strings.Contains(string(raw), user.PasswordHash) {
		t.Fatalf("serialized user leaks password material: %s", raw)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc := newUserSvc(newStubUserRepo(), newStubCatRepo(), nil)

	cases := []ports.RegisterInput{
		{UserName: "a", Email: "a@x.io", Password: "pw123456"},
		{UserName: "alice", Email: "a@x", Password: "pw123456"},
		{UserName: "alice", Email: "not-an-email", Password: "pw123456"},
		{UserName: "alice", Email: "a@x.io", Password: "short"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for %+v, got %v", in, err)
		}
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	svc := newUserSvc(newStubUserRepo(), newStubCatRepo(), nil)

	in := ports.RegisterInput{UserName: "bob", Email: "bob@x.io", Password: "pw123456"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_CreateAdmin(t *testing.T) {
	svc := newUserSvc(newStubUserRepo(), newStubCatRepo(), nil)

	admin, err := svc.CreateAdmin(context.Background(), ports.RegisterInput{UserName: "root", Email: "root@x.io", Password: "pw123456"})
	if err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}
}

func TestUserService_CreateAdmin_RejectsDisplayNameEmail(t *testing.T) {
	users := newStubUserRepo()
	svc := newUserSvc(users, newStubCatRepo(), nil)

	for _, email := range []string{"Bob <b@x.io>", "<b@x.io>", "b@x.io (Bob)"} {
		_, err := svc.CreateAdmin(context.Background(), ports.RegisterInput{UserName: "bob", Email: email, Password: "pw123456"})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("%q: expected ErrInvalidArgument, got %v", email, err)
		}
	}
	if len(users.users) != 0 {
		t.Fatalf("nothing should be stored, got %d users", len(users.users))
	}
}

func TestUserService_Login_Success(t *testing.T) {
	svc := newUserSvc(newStubUserRepo(), newStubCatRepo(), nil)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{UserName: "carol", Email: "carol@x.io", Password: "s3cret-pw"})

	res, err := svc.Login(context.Background(), "Carol@x.io", "s3cret-pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}

	p, err := svc.tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if p.ID != res.User.ID || p.UserName != "carol" || p.Role != domain.RoleUser {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestUserService_Login_Failures(t *testing.T) {
	svc := newUserSvc(newStubUserRepo(), newStubCatRepo(), nil)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{UserName: "dave", Email: "dave@x.io", Password: "goodpass1"})

	if _, err := svc.Login(context.Background(), "dave@x.io", "badpass11"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@x.io", "goodpass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestUserService_Get_ReadsThroughCache(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("u1", "alice", domain.RoleUser)
	cache := newStubCache()
	svc := newUserSvc(repo, newStubCatRepo(), cache)

	for i := 0; i < 3; i++ {
		u, err := svc.Get(context.Background(), "u1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if u.UserName != "alice" {
			t.Fatalf("unexpected user: %+v", u)
		}
	}
	if repo.findCalls != 1 {
		t.Fatalf("expected 1 repository read, got %d", repo.findCalls)
	}

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateSelf(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("u1", "alice", domain.RoleUser)
	cache := newStubCache()
	svc := newUserSvc(repo, newStubCatRepo(), cache)
	p := &domain.Principal{ID: "u1", UserName: "alice", Role: domain.RoleUser}

	updated, err := svc.UpdateSelf(context.Background(), p, ports.UpdateUserInput{UserName: "alicia", Password: "newpass123"})
	if err != nil {
		t.Fatalf("UpdateSelf failed: %v", err)
	}
	if updated.UserName != "alicia" {
		t.Fatalf("expected new name, got %q", updated.UserName)
	}
	if bcrypt.CompareHashAndPassword([]byte(repo.users["u1"].PasswordHash), []byte("newpass123")) != nil {
		t.Fatalf("password was not re-hashed")
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "u1" {
		t.Fatalf("expected cache invalidation for u1, got %v", cache.invalidated)
	}

	if _, err := svc.UpdateSelf(context.Background(), p, ports.UpdateUserInput{}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty update, got %v", err)
	}
	if _, err := svc.UpdateSelf(context.Background(), nil, ports.UpdateUserInput{UserName: "x"}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUserService_DeleteSelf_Cascades(t *testing.T) {
	users := newStubUserRepo()
	users.seed("u1", "alice", domain.RoleUser)
	users.seed("u2", "bob", domain.RoleUser)
	cats := newStubCatRepo()
	cats.seed("c1", "u1", 24.9, 60.1)
	cats.seed("c2", "u1", 25.0, 60.2)
	cats.seed("c3", "u2", 25.0, 60.2)
	svc := newUserSvc(users, cats, newStubCache())

	deleted, err := svc.DeleteSelf(context.Background(), &domain.Principal{ID: "u1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("DeleteSelf failed: %v", err)
	}
	if deleted.ID != "u1" {
		t.Fatalf("unexpected deleted user: %+v", deleted)
	}

	left, _ := cats.FindByOwner(context.Background(), "u1")
	if len(left) != 0 {
		t.Fatalf("expected no cats for u1 after cascade, got %d", len(left))
	}
	if _, ok := cats.cats["c3"]; !ok {
		t.Fatalf("cascade removed another user's cat")
	}
	if _, err := users.FindByID(context.Background(), "u1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
}

func TestUserService_DeleteSelf_CascadeFailureKeepsUser(t *testing.T) {
	users := newStubUserRepo()
	users.seed("u1", "alice", domain.RoleUser)
	cats := newStubCatRepo()
	cats.cascadeErr = errors.New("mongo down")
	svc := newUserSvc(users, cats, nil)

	if _, err := svc.DeleteSelf(context.Background(), &domain.Principal{ID: "u1", Role: domain.RoleUser}); err == nil {
		t.Fatalf("expected error when cascade fails")
	}
	if _, ok := users.users["u1"]; !ok {
		t.Fatalf("user must survive a failed cascade")
	}
}

func TestUserService_DeleteSelf_UnknownUser(t *testing.T) {
	svc := newUserSvc(newStubUserRepo(), newStubCatRepo(), nil)

	if _, err := svc.DeleteSelf(context.Background(), &domain.Principal{ID: "ghost", Role: domain.RoleUser}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
