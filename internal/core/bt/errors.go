package bt

import "errors"

// Engine-specific errors
var (
	ErrKeyNotFound       = errors.New("blackboard key not found")
	ErrTypeMismatch      = errors.New("blackboard value kind mismatch")
	ErrInvalidDefinition = errors.New("invalid tree definition")
	ErrStaleWatch        = errors.New("stale watch reference")
	ErrAgentNotFound     = errors.New("agent not found")
	ErrAgentExists       = errors.New("agent already exists")
	ErrUnknownNodeType   = errors.New("unknown node type")
)
