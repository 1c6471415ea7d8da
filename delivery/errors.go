package delivery

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrTransient marks a send failure the chat transport considers temporary
// (rate limiting, upstream 5xx). Chat implementations wrap it.
var ErrTransient = errors.New("transient chat error")

// ErrorClass represents whether a failed send should be retried or not.
type ErrorClass int

const (
	// ErrorClassRetryable indicates a network or timeout condition.
	ErrorClassRetryable ErrorClass = iota
	// ErrorClassFatal indicates the chat rejected the request outright.
	ErrorClassFatal
	// ErrorClassUnknown indicates the error type cannot be determined.
	ErrorClassUnknown
)

// String returns a human-readable name for the error class.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorClassRetryable:
		return "retryable"
	case ErrorClassFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ClassifySendError classifies send errors into retryable vs fatal categories.
//
// Retryable:
//   - errors wrapping ErrTransient
//   - context deadlines and net.Error timeouts
//   - connection resets, refused connections, DNS failures, EOF
//   - 429 and 5xx responses
//
// Fatal:
//   - malformed requests and permission problems (400, 401, 403, 404)
//   - the bot was removed from or blocked in the chat
//
// Anything else is unknown and, unlike downloads, is not retried: a send
// that failed for an unknown reason may already have been delivered.
func ClassifySendError(err error) ErrorClass {
	if err == nil {
		return ErrorClassUnknown
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassRetryable
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrorClassRetryable
	}
	if errors.Is(err, context.Canceled) {
		return ErrorClassFatal
	}

	lower := strings.ToLower(err.Error())

	for _, p := range []string{
		"too many requests",
		"retry after",
		"429",
		"internal server error",
		"bad gateway",
		"service unavailable",
		"gateway timeout",
		"502",
		"503",
		"504",
	} {
		if strings.Contains(lower, p) {
			return ErrorClassRetryable
		}
	}

	for _, p := range []string{
		"bad request",
		"unauthorized",
		"forbidden",
		"chat not found",
		"bot was blocked",
		"bot was kicked",
		"not enough rights",
	} {
		if strings.Contains(lower, p) {
			return ErrorClassFatal
		}
	}

	for _, p := range []string{
		"connection reset",
		"connection refused",
		"timeout",
		"timed out",
		"temporary failure in name resolution",
		"no such host",
		"network is unreachable",
		"broken pipe",
		"eof",
	} {
		if strings.Contains(lower, p) {
			return ErrorClassRetryable
		}
	}

	return ErrorClassUnknown
}

// IsTransient reports whether a send failure should be retried.
func IsTransient(err error) bool {
	return ClassifySendError(err) == ErrorClassRetryable
}
