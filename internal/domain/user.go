package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")
	ErrEmailInUse      = errors.New("email already in use")
	// ErrEmailTaken 写入被 email 唯一索引拒绝时由 repo 返回
	ErrEmailTaken = errors.New("email taken")
)

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
}

func (User) TableName() string { return "users" }

// NewUser 已规范化的插入数据
type NewUser struct {
	Name  string
	Email string
}

// UserPatch 只带调用方传入的字段，nil 表示不改
type UserPatch struct {
	Name  *string
	Email *string
}

func (p UserPatch) Empty() bool { return p.Name == nil && p.Email == nil }

// UserRepository 在调用方的工作单元里执行；查不到返回 (nil, nil)
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, in NewUser) (*User, error)
	Update(ctx context.Context, u *User, patch UserPatch) error
	Delete(ctx context.Context, u *User) error
}
