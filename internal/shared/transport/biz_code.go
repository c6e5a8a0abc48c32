package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 业务码与 HTTP 状态码对齐，access 日志按区间定级（0 INFO / 1~499 WARN / >=500 ERROR）。
const (
	OK           = 0
	InvalidParam = 400
	NotFound     = 404
	NotReady     = 409
	SystemError  = 500
)

// FromHTTPStatus 把 HTTP 状态码折算成业务码。
func FromHTTPStatus(status int) BizCode {
	if status < 400 {
		return BizCode(OK)
	}
	return BizCode(status)
}
