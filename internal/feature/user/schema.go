package user

import (
	"errors"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"

	"go-gin-gorm-users/internal/domain"
	"go-gin-gorm-users/internal/transport/http/ez"
)

const (
	nameRules  = "required,max=50"
	emailRules = "required,email"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateRequest POST /users/ 请求体；用指针区分缺字段和空串
type CreateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`

	normalized domain.NewUser
}

// UpdateRequest PUT /users/{id} 请求体；没传的字段不改
type UpdateRequest struct {
	ID    int64   `json:"-"`
	Name  *string `json:"name"`
	Email *string `json:"email"`

	patch domain.UserPatch
}

// UserResponse 对外返回的用户
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeName 顺序：清洗 → 判空 → 长度
func NormalizeName(raw string) (string, *ez.FieldError) {
	name := Sanitize(raw)
	if err := validate.Var(name, nameRules); err != nil {
		return name, fieldError("name", err)
	}
	return name, nil
}

// NormalizeEmail 顺序：转小写 → 格式
func NormalizeEmail(raw string) (string, *ez.FieldError) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(email, emailRules); err != nil {
		return email, fieldError("email", err)
	}
	return email, nil
}

func fieldError(field string, err error) *ez.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ez.FieldError{Field: field, Rule: "invalid", Message: err.Error()}
	}
	fe := verrs[0]
	return &ez.FieldError{
		Field:   field,
		Rule:    fe.Tag(),
		Param:   fe.Param(),
		Message: message(field, fe.Tag(), fe.Param()),
	}
}

func message(field, rule, param string) string {
	switch {
	case field == "name" && rule == "required":
		return "Name cannot be empty or just spaces"
	case rule == "required":
		return "is required"
	case rule == "email":
		return "must be a valid email address"
	case rule == "max":
		return "must be at most " + param + " characters"
	default:
		return "failed " + rule + " validation"
	}
}

func missing(field string) ez.FieldError {
	return ez.FieldError{Field: field, Rule: "required", Message: "field required"}
}

// Normalize 逐字段校验，错误全部收集后一起返回
func (r *CreateRequest) Normalize() error {
	var fields []ez.FieldError

	if r.Name == nil {
		fields = append(fields, missing("name"))
	} else if name, fe := NormalizeName(*r.Name); fe != nil {
		fields = append(fields, *fe)
	} else {
		r.normalized.Name = name
	}

	if r.Email == nil {
		fields = append(fields, missing("email"))
	} else if email, fe := NormalizeEmail(*r.Email); fe != nil {
		fields = append(fields, *fe)
	} else {
		r.normalized.Email = email
	}

	if len(fields) > 0 {
		return ez.Unprocessable(ez.MsgValidation, fields)
	}
	return nil
}

func (r *CreateRequest) NewUser() domain.NewUser { return r.normalized }

func (r *UpdateRequest) Normalize() error {
	var fields []ez.FieldError

	if r.Name != nil {
		if name, fe := NormalizeName(*r.Name); fe != nil {
			fields = append(fields, *fe)
		} else {
			r.patch.Name = &name
		}
	}
	if r.Email != nil {
		if email, fe := NormalizeEmail(*r.Email); fe != nil {
			fields = append(fields, *fe)
		} else {
			r.patch.Email = &email
		}
	}

	if len(fields) > 0 {
		return ez.Unprocessable(ez.MsgValidation, fields)
	}
	return nil
}

func (r *UpdateRequest) Patch() domain.UserPatch { return r.patch }

// NewResponse created_at 只在输出时转时区，不改 u
func NewResponse(u *domain.User, loc *time.Location) UserResponse {
	if loc == nil {
		loc = time.UTC
	}
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.In(loc),
	}
}

// LoadLocation name 为空时用 America/New_York
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = "America/New_York"
	}
	return time.LoadLocation(name)
}
