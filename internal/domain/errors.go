package domain

import "fmt"

// EngineError is the unified error type for the engine.
// Each error has a numeric code and human-readable message.
type EngineError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("engine error %d: %s", e.Code, e.Message)
}

// NewEngineError creates a new EngineError.
func NewEngineError(code int, msg string) *EngineError {
	return &EngineError{Code: code, Message: msg}
}

// WrapEngineError creates an EngineError that includes a cause.
func WrapEngineError(code int, msg string, cause error) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf("%s: %v", msg, cause)}
}

// ---- Derivation errors (-32210 to -32229) ----

var (
	// ErrProgrammeDatesUnavailable signals that neither an anchor date nor a
	// programme start date could be resolved, so programme-position features
	// (blocks, streak coloring, day index) are undefined for the request.
	ErrProgrammeDatesUnavailable = &EngineError{Code: -32210, Message: "programme dates not available"}
	ErrSnapshotIncomplete        = &EngineError{Code: -32211, Message: "snapshot is missing required collections"}
)

// ---- Store errors (-32230 to -32249) ----

var (
	ErrStoreInit       = &EngineError{Code: -32230, Message: "failed to initialize store"}
	ErrStoreQuery      = &EngineError{Code: -32231, Message: "store query failed"}
	ErrStoreWrite      = &EngineError{Code: -32232, Message: "store write failed"}
	ErrSchemaMigration = &EngineError{Code: -32233, Message: "schema migration failed"}
)

// ---- Config errors (-32250 to -32269) ----

var (
	ErrConfigInvalid = &EngineError{Code: -32250, Message: "invalid configuration"}
)

// ---- Provider / user errors (-32270 to -32289) ----

var (
	ErrUserNotFound      = &EngineError{Code: -32270, Message: "user not found"}
	ErrProgrammeNotFound = &EngineError{Code: -32271, Message: "no programme recorded for user"}
)
