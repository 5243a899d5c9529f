package main

import (
	"fmt"
	"io"
	"os"

	"gobioact/app"
	"gobioact/domain/stats"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ "+format+"\n", a...)
}

func warning(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, "⚠️  "+format+"\n", a...)
}

// fail prints a red title and explanation to stderr and returns a bare error
// for cobra, which has SilenceErrors set
func fail(title string, err error) error {
	red.Fprintf(os.Stderr, "%s\n", title)
	fmt.Fprintf(os.Stderr, "%v\n", err)
	return fmt.Errorf("%s", title)
}

func printResult(w io.Writer, res *app.RunResult) {
	bold.Fprintf(w, "Run %s\n", res.RunID)
	c := res.Snapshots.Counts
	fmt.Fprintf(w, "records: %d raw, %d cleaned, %d classified (%d active, %d inactive, %d intermediate)\n",
		len(res.Snapshots.Original), len(res.Snapshots.Cleaned), len(res.Snapshots.Classified),
		c.Active, c.Inactive, c.Intermediate)

	for _, a := range res.Audits {
		line := fmt.Sprintf("  %-16s in=%-5d out=%-5d dropped=%-4d %dms", a.Stage, a.InputCount, a.OutputCount, a.Dropped(), a.DurationMs)
		if a.CacheHit {
			cyan.Fprintln(w, line+" (cached)")
		} else {
			fmt.Fprintln(w, line)
		}
		for _, msg := range a.Warnings {
			warning(w, "%s", msg)
		}
	}

	fmt.Fprintln(w)
	for _, o := range res.Tests {
		if !o.Completed() {
			yellow.Fprintf(w, "  %-14s %s: %s\n", o.Descriptor, o.Status, o.Reason)
			continue
		}
		r := o.Result
		line := fmt.Sprintf("  %-14s U=%-8g p=%-10.4g %s", r.Descriptor, r.Statistic, r.PValue, r.Interpretation)
		if r.Interpretation == stats.DifferentDistribution {
			green.Fprintln(w, line)
		} else {
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w)
	if res.Status == stats.StatusCompleted {
		success(w, "status %s, output hash %s", res.Status, res.Manifest.OutputHash)
	} else {
		warning(w, "status %s, output hash %s", res.Status, res.Manifest.OutputHash)
	}
}
