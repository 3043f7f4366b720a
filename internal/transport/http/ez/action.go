package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-gorm-users/internal/core/database"
)

// 绑定方式
type Binder string

const (
	BindJSON Binder = "json" // 从 JSON 绑定
	BindNone Binder = "none" // 不绑定，自己从 c.Param 取
)

type EZ struct {
	g   gin.IRoutes
	db  *gorm.DB
	log *zap.Logger
}

func New(g gin.IRoutes, db *gorm.DB, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, db: db, log: l}
}

// Action 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string // "GET" | "POST" | "PUT" | "DELETE"
	Path   string // 例："/users/:id"
	Binder Binder
	Status int  // 成功状态码，默认 200
	UseTx  bool // 整个 Handler 包在一个事务里（工作单元）
	// Validate 在绑定之后、打开工作单元之前执行；失败直接短路
	Validate func(c *gin.Context, in *I) error
	Handler  func(c *gin.Context, tx *gorm.DB, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		if a.Binder == BindJSON {
			if err := bindJSON(c, &in); err != nil {
				Fail(c, e.log, err)
				return
			}
		}

		// 2) 校验（不碰数据库）
		if a.Validate != nil {
			if err := a.Validate(c, &in); err != nil {
				Fail(c, e.log, err)
				return
			}
		}

		// 3) 执行：事务提交/回滚由 gorm.Transaction 负责，panic 时也会回滚
		ctx := c.Request.Context()
		var out O
		var err error
		if a.UseTx {
			var herr error
			err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				out, herr = a.Handler(c, tx, &in)
				return herr
			})
			if err != nil && herr == nil {
				err = database.Wrap("transaction", err)
			}
		} else {
			var db *gorm.DB
			if e.db != nil {
				db = e.db.WithContext(ctx)
			}
			out, err = a.Handler(c, db, &in)
		}

		// 4) 统一错误映射
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
