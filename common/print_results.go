package common

import (
	"fmt"
	"io"
)

// Results is what a benchmark hands to PrintResults.
type Results struct {
	Name            string
	Class           string
	N1, N2, N3      int
	Iterations      int
	Seconds         float64
	Mops            float64
	OpType          string
	Verified        bool
	NPBVersion      string
	CompileTime     string
	CompilerVersion string
	Threads         int
	Rand            string
}

// PrintResults writes the standard NPB result banner.
func PrintResults(w io.Writer, r Results) {
	fmt.Fprintf(w, "\n\n %s Benchmark Completed\n", r.Name)
	fmt.Fprintf(w, " class_npb       =                        %s\n", r.Class)

	if r.N2 == 0 && r.N3 == 0 {
		fmt.Fprintf(w, " Size            =             %12d\n", r.N1)
	} else {
		fmt.Fprintf(w, " Size            =           %4dx%4dx%4d\n", r.N1, r.N2, r.N3)
	}

	fmt.Fprintf(w, " Iterations      =             %12d\n", r.Iterations)
	fmt.Fprintf(w, " Time in seconds =             %12.2f\n", r.Seconds)
	fmt.Fprintf(w, " Threads         =             %12d\n", r.Threads)
	fmt.Fprintf(w, " Mop/s total     =             %12.2f\n", r.Mops)
	if r.Threads > 0 {
		fmt.Fprintf(w, " Mop/s/thread    =             %12.2f\n", r.Mops/float64(r.Threads))
	}
	fmt.Fprintf(w, " Operation type  = %24s\n", r.OpType)

	if r.Verified {
		fmt.Fprintln(w, " Verification    =               SUCCESSFUL")
	} else {
		fmt.Fprintln(w, " Verification    =             UNSUCCESSFUL")
	}

	fmt.Fprintf(w, " Version         =             %12s\n", r.NPBVersion)
	fmt.Fprintf(w, " Compiler ver    =             %12s\n", r.CompilerVersion)
	fmt.Fprintf(w, " Compile date    =             %12s\n", r.CompileTime)

	fmt.Fprintln(w, "\n Compile options:")
	fmt.Fprintf(w, "    RAND         = %s\n", r.Rand)
	fmt.Fprintln(w, "\n\n----------------------------------------------------------------------")
	fmt.Fprintln(w, "    NPB-GO is developed by: ")
	fmt.Fprintln(w, "        Igor Yuji Ishihara Sakuma")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "----------------------------------------------------------------------")
	fmt.Fprintln(w)
}
