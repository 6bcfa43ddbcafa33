package cli

import "github.com/heysubinoy/kv/pkg/kv"

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitIO      = 3
)

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	switch kv.KindOf(err) {
	case kv.KindInvalidArgument:
		return ExitUsage
	case kv.KindIO:
		return ExitIO
	default:
		return ExitFailure
	}
}
