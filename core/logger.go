package core

// Logger is the app-wide logger.
// Args may contain errors, map[string]interface{} extras and the caller's auth.Identity.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
