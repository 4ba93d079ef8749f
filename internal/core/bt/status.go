package bt

// Status represents the execution status of a behavior tree node.
//
// StatusInactive is the zero value so a freshly allocated runtime slab is
// already in the correct state. Parents only ever observe Success, Failure or
// Running from a child; Inactive marks nodes that were not reached during the
// current traversal.
type Status uint8

const (
	StatusInactive Status = iota
	StatusSuccess
	StatusFailure
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusRunning:
		return "running"
	default:
		return "inactive"
	}
}

// Terminal reports whether the status ends an activation.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailure
}
