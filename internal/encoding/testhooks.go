package encoding

import (
	"context"
	"os/exec"
)

// commandContext builds the ffmpeg process. It is a package-level variable
// so tests can substitute a fake encoder.
var commandContext = exec.CommandContext

// SetCommandForTests overrides the process factory during tests.
func SetCommandForTests(fn func(context.Context, string, ...string) *exec.Cmd) func() {
	previous := commandContext
	commandContext = fn
	return func() {
		commandContext = previous
	}
}
