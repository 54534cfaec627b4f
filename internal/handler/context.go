package handler

type ContextKey string

var (
	RoleCtxKey   ContextKey = "role"
	SubCtxKey    ContextKey = "sub"
	DateCtxKey   ContextKey = "date"
	GuideInfoCtx ContextKey = "guideInfo"
	StaffInfoCtx ContextKey = "staffInfo"
)
