package extract

import "fmt"

// NoStrategyError reports that every strategy in a selector chain produced
// zero usable items. Callers treat it like a transient fetch failure: the
// page may have been a malformed or partial response, so the whole attempt
// is retried.
type NoStrategyError struct {
	Target string // "chapter list" or "chapter content"
}

func (e *NoStrategyError) Error() string {
	return fmt.Sprintf("no extraction strategy matched for %s", e.Target)
}
