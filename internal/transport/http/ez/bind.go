package ez

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const MsgValidation = "Validation error"

// bindJSON 把 gin 的绑定错误翻译成 422 + 字段明细
func bindJSON(c *gin.Context, out any) error {
	if c.Request.Body == nil {
		return Unprocessable(MsgValidation, []FieldError{{Field: "body", Rule: "required", Message: "request body is required"}})
	}
	if err := c.ShouldBindJSON(out); err != nil {
		return parseBindError(err, out)
	}
	return nil
}

func parseBindError(err error, out any) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &AErr{Code: http.StatusRequestEntityTooLarge, Msg: "Request body too large"}
	}

	if errors.Is(err, io.EOF) {
		return Unprocessable(MsgValidation, []FieldError{{Field: "body", Rule: "required", Message: "request body is required"}})
	}

	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Unprocessable(MsgValidation, []FieldError{{Field: "body", Rule: "json", Message: "invalid JSON syntax"}})
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		field := jsonFieldName(out, typeError.Field)
		return Unprocessable(MsgValidation, []FieldError{{
			Field:   field,
			Rule:    "type",
			Message: "must be of type " + typeError.Type.String(),
		}})
	}

	return Unprocessable(MsgValidation, []FieldError{{Field: "body", Rule: "decode", Message: err.Error()}})
}

// jsonFieldName 把 Go 字段路径映射回 json 名
func jsonFieldName(out any, path string) string {
	path = strings.TrimSpace(path)
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct || path == "" {
		return path
	}
	sf, ok := t.FieldByName(path)
	if !ok {
		return path
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

// ParamInt64 读取整型路径参数，非法时 422
func ParamInt64(c *gin.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, Unprocessable(MsgValidation, []FieldError{{Field: name, Rule: "type", Message: "must be an integer"}})
	}
	return v, nil
}
