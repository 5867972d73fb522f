package commands

import "github.com/Sumatoshi-tech/dtannotate/pkg/dtsio"

const (
	exitOK      = 0
	exitFailure = 1
)

// ExitCode maps a command error to a process exit status. File errors get
// one status per [dtsio.ErrCode], from 2 for a missing input to 6 for a
// failed output write; every other error is 1.
func ExitCode(err error) int {
	switch code := dtsio.Code(err); code {
	case dtsio.NoError:
		return exitOK
	case dtsio.UnknownError:
		return exitFailure
	default:
		return exitFailure + int(code)
	}
}
