package source

import "time"

// CommandOption applies a configuration option to the CommandSource.
type CommandOption func(*CommandSource)

// WithBinary sets the CLI executable.
func WithBinary(path string) CommandOption {
	return func(s *CommandSource) {
		if path != "" {
			s.binary = path
		}
	}
}

// WithScoreName sets the secure score resource name.
func WithScoreName(name string) CommandOption {
	return func(s *CommandSource) {
		if name != "" {
			s.scoreName = name
		}
	}
}

// WithTimeout bounds a single CLI invocation.
func WithTimeout(d time.Duration) CommandOption {
	return func(s *CommandSource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithCommandClock sets the clock stamping new records.
func WithCommandClock(c Clock) CommandOption {
	return func(s *CommandSource) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithRunner replaces the process runner.
func WithRunner(r Runner) CommandOption {
	return func(s *CommandSource) {
		if r != nil {
			s.run = r
		}
	}
}

// FileOption applies a configuration option to the FileSource.
type FileOption func(*FileSource)

// WithFileClock sets the clock stamping new records.
func WithFileClock(c Clock) FileOption {
	return func(s *FileSource) {
		if c != nil {
			s.clock = c
		}
	}
}
