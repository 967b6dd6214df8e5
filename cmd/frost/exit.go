package main

// Process exit statuses.
const (
	exitGenericError  = 1
	exitSyntaxError   = 1
	exitIOError       = 2
	exitInvalidConfig = 3
)

// exitCodeError carries the status the process should exit with.
type exitCodeError struct {
	error
	Code int
	Hint string
}

func (e exitCodeError) Unwrap() error {
	return e.error
}
