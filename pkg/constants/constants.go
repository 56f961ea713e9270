package constants

type contextKey int

const (
	AppKey contextKey = iota
	PoolKey
	TxKey
	LoggerKey
	ParamsKey
	HostKey
	TenantIDKey
	RoleKey
	UserKey
	SessionKey
	RequestIDKey
)
