package response

import "net/http"

// ErrorBody 错误响应：{"error": ..., "status_code": ...}
type ErrorBody struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Details    any    `json:"details,omitempty"`
}

// Message 成功时只带一句提示的响应
type Message struct {
	Message string `json:"message"`
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(status int, customMsg string) ErrorBody {
	msg := customMsg
	if msg == "" {
		msg = CodeMsgMap[status]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return ErrorBody{Error: msg, StatusCode: status}
}

// WithDetails 附带字段级错误
func (b ErrorBody) WithDetails(details any) ErrorBody {
	b.Details = details
	return b
}
