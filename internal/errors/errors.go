package errors

import (
	"fmt"
	"os"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/logger"
)

const prefix = "Error: "

// Format renders err for the terminal. A nil error renders as "".
func Format(err error) string {
	if err == nil {
		return ""
	}
	return prefix + err.Error()
}

func Formatf(format string, args ...any) string {
	return prefix + fmt.Sprintf(format, args...)
}

// Fatal reports err on stderr and exits 1. It returns normally when err is nil.
func Fatal(err error) {
	if err == nil {
		return
	}
	exit(err, Format(err))
}

func Fatalf(format string, args ...any) {
	exit(fmt.Errorf(format, args...), Formatf(format, args...))
}

func exit(err error, msg string) {
	logger.Error("command failed", "error", err)
	logger.Close()
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
