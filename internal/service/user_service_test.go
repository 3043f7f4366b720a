package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-gin-gorm-users/internal/domain"
)

type fakeUserRepo struct {
	findByIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	findByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	insertFn      func(ctx context.Context, in domain.NewUser) (*domain.User, error)
	updateFn      func(ctx context.Context, u *domain.User, patch domain.UserPatch) error
	deleteFn      func(ctx context.Context, u *domain.User) error

	inserts int
	updates int
	deletes int
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeUserRepo) Insert(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	f.inserts++
	if f.insertFn != nil {
		return f.insertFn(ctx, in)
	}
	return &domain.User{ID: 1, Name: in.Name, Email: in.Email, CreatedAt: time.Now().UTC()}, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User, patch domain.UserPatch) error {
	f.updates++
	if f.updateFn != nil {
		return f.updateFn(ctx, u, patch)
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, u *domain.User) error {
	f.deletes++
	if f.deleteFn != nil {
		return f.deleteFn(ctx, u)
	}
	return nil
}

func newObservedService(repo domain.UserRepository) (*UserService, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewUserService(repo, zap.New(core)), logs
}

func strPtr(s string) *string { return &s }

func TestUserService_Create(t *testing.T) {
	existing := &domain.User{ID: 5, Name: "User1", Email: "duplicate@example.com"}
	storeErr := errors.New("connection reset")

	tests := []struct {
		name        string
		repo        *fakeUserRepo
		wantErr     error
		wantInserts int
	}{
		{
			name:        "fresh email inserts",
			repo:        &fakeUserRepo{},
			wantInserts: 1,
		},
		{
			name: "existing email rejected before insert",
			repo: &fakeUserRepo{findByEmailFn: func(context.Context, string) (*domain.User, error) {
				return existing, nil
			}},
			wantErr: domain.ErrEmailRegistered,
		},
		{
			name: "unique index race maps to registered",
			repo: &fakeUserRepo{insertFn: func(context.Context, domain.NewUser) (*domain.User, error) {
				return nil, domain.ErrEmailTaken
			}},
			wantErr:     domain.ErrEmailRegistered,
			wantInserts: 1,
		},
		{
			name: "lookup failure propagates",
			repo: &fakeUserRepo{findByEmailFn: func(context.Context, string) (*domain.User, error) {
				return nil, storeErr
			}},
			wantErr: storeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newObservedService(tt.repo)

			u, err := svc.Create(context.Background(), domain.NewUser{Name: "Jin Chen", Email: "duplicate@example.com"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (u == nil || u.ID == 0) {
				t.Fatalf("expected created user, got %+v", u)
			}
			if tt.repo.inserts != tt.wantInserts {
				t.Fatalf("inserts: got %d want %d", tt.repo.inserts, tt.wantInserts)
			}
		})
	}
}

func TestUserService_CreateDuplicateLogsWarning(t *testing.T) {
	repo := &fakeUserRepo{findByEmailFn: func(context.Context, string) (*domain.User, error) {
		return &domain.User{ID: 1}, nil
	}}
	svc, logs := newObservedService(repo)

	_, _ = svc.Create(context.Background(), domain.NewUser{Name: "x", Email: "a@example.com"})

	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}
}

func TestUserService_Get(t *testing.T) {
	repo := &fakeUserRepo{findByIDFn: func(_ context.Context, id int64) (*domain.User, error) {
		if id == 1 {
			return &domain.User{ID: 1, Name: "Get User"}, nil
		}
		return nil, nil
	}}
	svc, logs := newObservedService(repo)

	u, err := svc.Get(context.Background(), 1)
	if err != nil || u.Name != "Get User" {
		t.Fatalf("got (%+v, %v)", u, err)
	}

	_, err = svc.Get(context.Background(), 99999)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Fatalf("expected miss logged at error, got %v", logs.All())
	}
}

func TestUserService_Update(t *testing.T) {
	newTarget := func() *domain.User {
		return &domain.User{ID: 2, Name: "User2", Email: "email2@example.com"}
	}
	other := &domain.User{ID: 1, Name: "User1", Email: "email1@example.com"}

	tests := []struct {
		name        string
		patch       domain.UserPatch
		holder      *domain.User
		updateErr   error
		wantErr     error
		wantName    string
		wantEmail   string
		wantLookups int
	}{
		{
			name:      "name only leaves email",
			patch:     domain.UserPatch{Name: strPtr("New Name")},
			wantName:  "New Name",
			wantEmail: "email2@example.com",
		},
		{
			name:        "email held by another user",
			patch:       domain.UserPatch{Email: strPtr("email1@example.com")},
			holder:      other,
			wantErr:     domain.ErrEmailInUse,
			wantLookups: 1,
		},
		{
			name:      "same email skips lookup",
			patch:     domain.UserPatch{Email: strPtr("email2@example.com")},
			wantName:  "User2",
			wantEmail: "email2@example.com",
		},
		{
			name:        "fresh email applied",
			patch:       domain.UserPatch{Email: strPtr("fresh@example.com")},
			wantName:    "User2",
			wantEmail:   "fresh@example.com",
			wantLookups: 1,
		},
		{
			name:        "unique index race maps to in use",
			patch:       domain.UserPatch{Email: strPtr("fresh@example.com")},
			updateErr:   domain.ErrEmailTaken,
			wantErr:     domain.ErrEmailInUse,
			wantLookups: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookups := 0
			repo := &fakeUserRepo{
				findByIDFn: func(context.Context, int64) (*domain.User, error) { return newTarget(), nil },
				findByEmailFn: func(context.Context, string) (*domain.User, error) {
					lookups++
					return tt.holder, nil
				},
			}
			if tt.updateErr != nil {
				repo.updateFn = func(context.Context, *domain.User, domain.UserPatch) error { return tt.updateErr }
			}
			svc, _ := newObservedService(repo)

			u, err := svc.Update(context.Background(), 2, tt.patch)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v want %v", err, tt.wantErr)
			}
			if lookups != tt.wantLookups {
				t.Fatalf("email lookups: got %d want %d", lookups, tt.wantLookups)
			}
			if tt.wantErr != nil {
				return
			}
			if u.ID != 2 || u.Name != tt.wantName || u.Email != tt.wantEmail {
				t.Fatalf("unexpected user %+v", u)
			}
		})
	}
}

func TestUserService_UpdateMissing(t *testing.T) {
	repo := &fakeUserRepo{}
	svc, _ := newObservedService(repo)

	_, err := svc.Update(context.Background(), 42, domain.UserPatch{Name: strPtr("x")})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatal("update must not run for a missing user")
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := &fakeUserRepo{findByIDFn: func(_ context.Context, id int64) (*domain.User, error) {
		return &domain.User{ID: id}, nil
	}}
	svc, _ := newObservedService(repo)

	if err := svc.Delete(context.Background(), 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deletes != 1 {
		t.Fatalf("deletes: got %d", repo.deletes)
	}

	missing := &fakeUserRepo{}
	svc, _ = newObservedService(missing)
	if err := svc.Delete(context.Background(), 3); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if missing.deletes != 0 {
		t.Fatal("delete must not run for a missing user")
	}
}
