package collector

// State is the lifecycle position of a Collector.
type State string

const (
	StateNotStarted  State = "not_started"
	StateActive      State = "active"
	StatePageFetched State = "page_fetched"
	StateDone        State = "done"
	StateQuotaPaused State = "quota_paused"
	StateFailed      State = "failed"
)

// Terminal reports whether no further pages will be fetched.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateQuotaPaused, StateFailed:
		return true
	default:
		return false
	}
}

func (s State) String() string {
	return string(s)
}
