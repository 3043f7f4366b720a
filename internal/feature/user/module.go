package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-gorm-users/internal/domain"
	"go-gin-gorm-users/internal/repo"
	"go-gin-gorm-users/internal/service"
	"go-gin-gorm-users/internal/transport/http/ez"
	mdw "go-gin-gorm-users/internal/transport/http/middleware"
	resp "go-gin-gorm-users/internal/transport/http/response"
)

const (
	MsgNotFound        = "User not found"
	MsgEmailRegistered = "Email already registered"
	MsgEmailInUse      = "Email already in use"
	MsgDeleted         = "User deleted successfully"
)

// Module 挂载 /users 路由
type Module struct {
	db  *gorm.DB
	log *zap.Logger
	loc *time.Location
}

func NewModule(db *gorm.DB, log *zap.Logger, displayLoc *time.Location) *Module {
	if log == nil {
		log = zap.NewNop()
	}
	return &Module{db: db, log: log, loc: displayLoc}
}

func (m *Module) Priority() int { return 10 }

// service 基于本次请求的事务句柄构造 UserService
func (m *Module) service(c *gin.Context, tx *gorm.DB) *service.UserService {
	l := m.log.With(zap.String("rid", c.GetString(mdw.KeyRequestID)))
	return service.NewUserService(repo.NewUserRepo(tx), l)
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return ez.NotFound(MsgNotFound)
	case errors.Is(err, domain.ErrEmailRegistered):
		return ez.BadRequest(MsgEmailRegistered)
	case errors.Is(err, domain.ErrEmailInUse):
		return ez.BadRequest(MsgEmailInUse)
	}
	return err
}

type idParam struct {
	ID int64
}

func (m *Module) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, m.db, m.log)

	ez.RegisterAction(e, ez.Action[CreateRequest, UserResponse]{
		Method: http.MethodPost,
		Path:   "/users/",
		Binder: ez.BindJSON,
		UseTx:  true,
		Validate: func(c *gin.Context, in *CreateRequest) error {
			return in.Normalize()
		},
		Handler: func(c *gin.Context, tx *gorm.DB, in *CreateRequest) (UserResponse, error) {
			u, err := m.service(c, tx).Create(c.Request.Context(), in.NewUser())
			if err != nil {
				return UserResponse{}, toHTTPError(err)
			}
			return NewResponse(u, m.loc), nil
		},
	})

	ez.RegisterAction(e, ez.Action[idParam, UserResponse]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		UseTx:  true,
		Validate: func(c *gin.Context, in *idParam) (err error) {
			in.ID, err = ez.ParamInt64(c, "id")
			return err
		},
		Handler: func(c *gin.Context, tx *gorm.DB, in *idParam) (UserResponse, error) {
			u, err := m.service(c, tx).Get(c.Request.Context(), in.ID)
			if err != nil {
				return UserResponse{}, toHTTPError(err)
			}
			return NewResponse(u, m.loc), nil
		},
	})

	ez.RegisterAction(e, ez.Action[UpdateRequest, UserResponse]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		UseTx:  true,
		Validate: func(c *gin.Context, in *UpdateRequest) (err error) {
			if in.ID, err = ez.ParamInt64(c, "id"); err != nil {
				return err
			}
			return in.Normalize()
		},
		Handler: func(c *gin.Context, tx *gorm.DB, in *UpdateRequest) (UserResponse, error) {
			u, err := m.service(c, tx).Update(c.Request.Context(), in.ID, in.Patch())
			if err != nil {
				return UserResponse{}, toHTTPError(err)
			}
			return NewResponse(u, m.loc), nil
		},
	})

	ez.RegisterAction(e, ez.Action[idParam, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		UseTx:  true,
		Validate: func(c *gin.Context, in *idParam) (err error) {
			in.ID, err = ez.ParamInt64(c, "id")
			return err
		},
		Handler: func(c *gin.Context, tx *gorm.DB, in *idParam) (resp.Message, error) {
			if err := m.service(c, tx).Delete(c.Request.Context(), in.ID); err != nil {
				return resp.Message{}, toHTTPError(err)
			}
			return resp.Message{Message: MsgDeleted}, nil
		},
	})
}
