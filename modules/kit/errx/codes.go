package errx

// 跨包统一的系统类错误码。
//
// 约束：
// - 只放“系统/技术类”错误码（启动失败、传输层异常等），便于告警与排障
// - 具体业务含义的错误码（例如 CONN_NOT_READY）由各包自行定义

const (
	// CodeInternal 表示服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖/对端不可用（网络断开、写失败等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeConfigInvalid 表示启动配置不合法。
	CodeConfigInvalid Code = "CONFIG_INVALID"
	// CodeStartup 表示启动阶段的致命错误（资源目录、证书、端口绑定）。
	CodeStartup Code = "STARTUP_FAILED"
)

var (
	ErrInternal      = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable   = NewSys(CodeUnavailable, "对端不可用")
	ErrConfigInvalid = NewSys(CodeConfigInvalid, "配置不合法")
	ErrStartup       = NewSys(CodeStartup, "启动失败")
)
