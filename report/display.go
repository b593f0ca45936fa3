package report

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

// The styles used for displaying diagnostics.
var (
	errorStyle = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	warnStyle  = pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	fileStyle  = pterm.NewStyle(pterm.FgCyan)
)

// DisplayError displays a compile error.  Errors carrying a source span are
// prefixed with their one-indexed position; errors carrying a function name
// are attributed to it.
func DisplayError(err error) {
	if cerr, ok := err.(*CompileError); ok {
		if cerr.Span != nil {
			fileStyle.Printf("%d:%d: ", cerr.Span.StartLine+1, cerr.Span.StartCol+1)
		}

		errorStyle.Print("error: ")

		if cerr.Func != "" {
			fmt.Printf("in %s: ", cerr.Func)
		}

		fmt.Println(cerr.Message)
		return
	}

	errorStyle.Print("error: ")
	fmt.Println(err.Error())
}

// DisplayWarning displays a non-fatal diagnostic message.
func DisplayWarning(message string, args ...interface{}) {
	warnStyle.Print("warning: ")
	fmt.Printf(message+"\n", args...)
}

// DisplayFatal displays a fatal error message and exits.  These are errors
// that should cause all compilation to stop immediately: they generally
// result from invalid configuration rather than erroneous input code.
func DisplayFatal(message string, args ...interface{}) {
	errorStyle.Print("fatal error: ")
	fmt.Printf(message+"\n", args...)

	os.Exit(1)
}
