package response

import "net/http"

// 统一错误信息（直接用 HTTP 状态码）
const (
	MsgDatabaseError = "Database error occurred"
	MsgInternalError = "Internal Server Error"
)

// CodeMsgMap 用于集中管理 status - 默认 msg
var CodeMsgMap = map[int]string{
	http.StatusBadRequest:            "Bad Request",
	http.StatusNotFound:              "Not Found",
	http.StatusMethodNotAllowed:      "Method Not Allowed",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusUnprocessableEntity:   "Validation error",
	http.StatusInternalServerError:   MsgInternalError,
	http.StatusServiceUnavailable:    "Service Unavailable",
	http.StatusGatewayTimeout:        "Request timed out",
}
