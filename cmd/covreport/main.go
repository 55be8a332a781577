// Command covreport renders a pkg/report.Reporter JSON file (written by
// covinstrument --report=...) as a human-readable summary, the same way
// the teacher's cmd/autoerr gave its library a standalone CLI face.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/covinstrument/covinstrument/pkg/report"
)

type cli struct {
	ReportPath string `arg:"" help:"Path to the JSON report file." type:"path"`
}

func main() {
	var c cli
	kong.Parse(&c, kong.Name("covreport"),
		kong.Description("Summarize a covinstrument JSON run report."))

	if err := run(c, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(c cli, out *os.File) error {
	data, err := os.ReadFile(c.ReportPath)
	if err != nil {
		return err
	}
	var d report.Data
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}

	fmt.Fprintf(out, "Instrumented: %d files\n", len(d.FilesInstrumented))
	fmt.Fprintf(out, "Skipped:      %d files\n", len(d.FilesSkipped))
	fmt.Fprintf(out, "Statements:   %d\n", d.Statements)
	fmt.Fprintf(out, "Functions:    %d\n", d.Functions)
	fmt.Fprintf(out, "Branches:     %d\n", d.Branches)
	for _, p := range d.FilesSkipped {
		fmt.Fprintf(out, "  skipped: %s\n", p)
	}
	return nil
}
