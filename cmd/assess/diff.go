package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/quay/licenseassess/snapshot"
)

// Diff runs one full assessment, the same as Scan, then prints the
// new/changed and removed RelativePaths from the run's snapshot diff to
// stdout, one per line, prefixed "+ " or "- ".
func Diff(ctx context.Context, cfg *commonConfig, args []string) error {
	result, err := runOnce(ctx, cfg.ConfigPath)
	if err != nil {
		return err
	}
	printDiff(os.Stdout, result.NewOrChanged, result.Removed)
	return nil
}

func printDiff(w io.Writer, newOrChanged, removed []snapshot.Record) {
	for _, r := range newOrChanged {
		fmt.Fprintf(w, "+ %s\n", r.RelativePath)
	}
	for _, r := range removed {
		fmt.Fprintf(w, "- %s\n", r.RelativePath)
	}
}
