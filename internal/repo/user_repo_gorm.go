package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-gin-gorm-users/internal/core/database"
	"go-gin-gorm-users/internal/domain"
)

// UserRepo 绑定一个 *gorm.DB，一般是请求的事务句柄
type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) first(ctx context.Context, op, query string, arg any) (*domain.User, error) {
	var u domain.User
	found := true
	err := database.Observe(op, func() error {
		err := r.db.WithContext(ctx).Where(query, arg).Take(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return nil, database.Wrap(op, err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, "find_by_id", "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "find_by_email", "email = ?", email)
}

func (r *UserRepo) Insert(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	u := &domain.User{Name: in.Name, Email: in.Email}
	err := database.Observe("insert", func() error {
		return r.db.WithContext(ctx).Create(u).Error
	})
	if database.IsUniqueViolation(err) {
		return nil, domain.ErrEmailTaken
	}
	if err != nil {
		return nil, database.Wrap("insert", err)
	}
	return u, nil
}

// Update 只写传入的列，created_at 不动
func (r *UserRepo) Update(ctx context.Context, u *domain.User, patch domain.UserPatch) error {
	cols := map[string]any{}
	if patch.Name != nil {
		cols["name"] = *patch.Name
	}
	if patch.Email != nil {
		cols["email"] = *patch.Email
	}
	if len(cols) == 0 {
		return nil
	}

	err := database.Observe("update", func() error {
		return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", u.ID).Updates(cols).Error
	})
	if database.IsUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return database.Wrap("update", err)
	}

	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, u *domain.User) error {
	err := database.Observe("delete", func() error {
		return r.db.WithContext(ctx).Where("id = ?", u.ID).Delete(&domain.User{}).Error
	})
	return database.Wrap("delete", err)
}
