package utils

// Context keys set by the auth middleware.
const (
	CtxUserID      = "userID"
	CtxSessionID   = "sessionID"
	CtxAccessToken = "accessToken"
)
