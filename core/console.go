package core

// Console is the operator-facing terminal. Components that need confirmation or
// extra input from the operator receive one.
type Console interface {
	Printf(format string, args ...interface{})
	// ReadLine prints the prompt and returns the trimmed line typed by the operator.
	ReadLine(prompt string) string
	// ReadInt is ReadLine parsed as an integer.
	ReadInt(prompt string) (int, error)
	// ReadPassword reads a line without echoing it.
	ReadPassword(prompt string) (string, error)
	// Confirm asks a yes/no question; only "y" or "yes" (any case) confirms.
	Confirm(question string) bool
	// Done reports whether the operator input is exhausted.
	Done() bool
}
