package constants

// Session and context keys
const (
	SessionCookieName = "task_session"
	ContextKeyUserID  = "user_id"
	ContextKeyActor   = "actor"
	ContextKeyTask    = "task"
)

// Account rules
const (
	MinPasswordLength = 8
)

// Task rules
const (
	MaxTitleLength  = 255
	CopyTitleSuffix = " (copy)"
)

// Notice severities understood by the UI toast surface
const (
	SeverityDefault     = "default"
	SeverityDestructive = "destructive"
)
