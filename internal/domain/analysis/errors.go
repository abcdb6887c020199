package analysis

import "errors"

// Stage failure kinds. Adapters wrap these with %w so callers can branch with errors.Is.
var (
	ErrTimeout       = errors.New("analysis stage timed out")
	ErrParse         = errors.New("analysis reply could not be parsed")
	ErrTransport     = errors.New("analysis transport failure")
	ErrUnavailable   = errors.New("analysis stage unavailable")
	ErrQuotaExceeded = errors.New("ai quota exceeded")
)

// Kind names a failure class for logs and persisted failure records.
type Kind string

const (
	KindOK          Kind = "ok"
	KindTimeout     Kind = "timeout"
	KindParse       Kind = "parse_error"
	KindTransport   Kind = "transport"
	KindUnavailable Kind = "unavailable"
	KindQuota       Kind = "quota_exceeded"
	KindUnknown     Kind = "unknown"
)

// KindOf classifies err. A nil error is KindOK.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrQuotaExceeded):
		return KindQuota
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrTransport):
		return KindTransport
	default:
		return KindUnknown
	}
}
