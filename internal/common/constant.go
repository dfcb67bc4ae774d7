package common

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "session"

// MaxNotificationsPerSession caps how many notifications the registry keeps
// per session; older entries are dropped first.
const MaxNotificationsPerSession = 100
