package results

import (
	"fmt"
)

// Format returns the text written to a regression results cell. A timeout takes
// precedence over everything else, then an unlocked board reports the runtime and
// pass/fail result and a locked board reports the lock holder.
func Format(timedOut bool, lock, runtime, passFail, args string) string {
	switch {
	case timedOut:
		return fmt.Sprintf("%v\nTimed Out!\nFAILED", args)

	case lock == "0":
		return fmt.Sprintf("%v\n%v\n%v", args, runtime, passFail)

	default:
		return fmt.Sprintf("%v\n%v\nUnknown?", args, lock)
	}
}
