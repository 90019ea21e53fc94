package sessionguard

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the session security engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrSessionNotFound is an exported constant or variable used by the session security engine.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUserNotFound is an exported constant or variable used by the session security engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserInactive is an exported constant or variable used by the session security engine.
	ErrUserInactive = errors.New("user inactive")
	// ErrNotOwner is an exported constant or variable used by the session security engine.
	ErrNotOwner = errors.New("session not owned by caller")
	// ErrCannotRevokeCurrent is an exported constant or variable used by the session security engine.
	ErrCannotRevokeCurrent = errors.New("current session cannot be revoked, use logout")
	// ErrTokenGeneration is an exported constant or variable used by the session security engine.
	ErrTokenGeneration = errors.New("token generation failed")
)
