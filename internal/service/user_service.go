package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"go-gin-gorm-users/internal/domain"
)

// UserService 编排单个请求；repo 绑定在该请求的工作单元上
type UserService struct {
	repo domain.UserRepository
	log  *zap.Logger
}

func NewUserService(repo domain.UserRepository, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{repo: repo, log: log}
}

func (s *UserService) Create(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	s.log.Info("received request to create user", zap.String("email", in.Email))

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Warn("user creation failed: email already registered", zap.String("email", in.Email))
		return nil, domain.ErrEmailRegistered
	}

	u, err := s.repo.Insert(ctx, in)
	if errors.Is(err, domain.ErrEmailTaken) {
		// 并发插入同一邮箱：唯一索引兜底
		s.log.Warn("user creation failed: unique index rejected email", zap.String("email", in.Email))
		return nil, domain.ErrEmailRegistered
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.Int64("id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	s.log.Info("searching for user", zap.Int64("id", id))

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.log.Error("user lookup failed: not found", zap.Int64("id", id))
		return nil, domain.ErrUserNotFound
	}

	s.log.Info("user found", zap.Int64("id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	s.log.Info("received request to update user", zap.Int64("id", id))

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.log.Warn("update failed: user not found", zap.Int64("id", id))
		return nil, domain.ErrUserNotFound
	}

	if patch.Email != nil {
		if *patch.Email == u.Email {
			patch.Email = nil
		} else {
			holder, err := s.repo.FindByEmail(ctx, *patch.Email)
			if err != nil {
				return nil, err
			}
			if holder != nil && holder.ID != u.ID {
				s.log.Warn("update failed: email already in use", zap.String("email", *patch.Email))
				return nil, domain.ErrEmailInUse
			}
		}
	}

	err = s.repo.Update(ctx, u, patch)
	if errors.Is(err, domain.ErrEmailTaken) {
		s.log.Warn("update failed: unique index rejected email", zap.Int64("id", id))
		return nil, domain.ErrEmailInUse
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("user updated", zap.Int64("id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	s.log.Info("received request to delete user", zap.Int64("id", id))

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		s.log.Error("delete failed: user not found", zap.Int64("id", id))
		return domain.ErrUserNotFound
	}

	if err := s.repo.Delete(ctx, u); err != nil {
		return err
	}

	s.log.Info("user deleted", zap.Int64("id", id))
	return nil
}
