package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	RegistrationCtx ContextKey = "registration"
	WorkShiftCtx    ContextKey = "workShift"
	PositionCtx     ContextKey = "position"
)
