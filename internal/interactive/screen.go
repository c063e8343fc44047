package interactive

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	logger "github.com/sirupsen/logrus"
)

// fallbackLines is how many blank lines stand in for a clear command.
const fallbackLines = 100

// Screen clears the terminal by running the platform clear command,
// printing blank lines when no such command exists.
type Screen struct {
	out     io.Writer
	command []string
	run     func(name string, args ...string) error
}

// NewScreen creates a screen writing to stdout.
func NewScreen() *Screen {
	return NewScreenWithIO(os.Stdout)
}

// NewScreenWithIO creates a screen writing to out.
func NewScreenWithIO(out io.Writer) *Screen {
	s := &Screen{out: out, command: clearCommand(runtime.GOOS)}
	s.run = func(name string, args ...string) error {
		cmd := exec.Command(name, args...)
		cmd.Stdout = s.out
		cmd.Stderr = io.Discard
		return cmd.Run()
	}
	return s
}

// clearCommand returns the clear command for goos.
func clearCommand(goos string) []string {
	if goos == "windows" {
		return []string{"cmd", "/c", "cls"}
	}
	return []string{"clear"}
}

// Clear implements review.Screen.
func (s *Screen) Clear() {
	if err := s.run(s.command[0], s.command[1:]...); err != nil {
		logger.Debugf("%s failed: %v, printing blank lines", strings.Join(s.command, " "), err)
		_, _ = fmt.Fprint(s.out, strings.Repeat("\n", fallbackLines))
	}
}
