package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/laterem/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
	exitFailureCodeConstant   = 1
)

// main executes the laterem command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	var reportedError cli.ReportedError
	if !errors.As(executionError, &reportedError) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(exitFailureCodeConstant)
}
