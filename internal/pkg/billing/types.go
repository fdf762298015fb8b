package billing

import "errors"

var (
	// ErrSignupNotFound means the referenced signup does not exist.
	ErrSignupNotFound = errors.New("signup not found")

	// ErrNoCancelToken means the signup exists but no recurring billing token
	// could be resolved from the record or the notification log.
	ErrNoCancelToken = errors.New("no cancel token available for signup")
)

// NotificationInput is the raw inbound webhook material handed to the service
// before any decoding happens.
type NotificationInput struct {
	RequestMeta string
	RawBody     []byte
}

// NotificationOutcome reports what a processed notification did. The webhook
// endpoint acknowledges regardless; this exists for logging and cache upkeep.
type NotificationOutcome struct {
	SignupID       string
	SignatureValid bool
	Complete       bool
	Transitioned   bool
}
