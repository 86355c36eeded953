package main

import (
	"bytes"
	"testing"

	"github.com/quay/licenseassess/snapshot"
)

func TestPrintDiff(t *testing.T) {
	var buf bytes.Buffer
	printDiff(&buf,
		[]snapshot.Record{{RelativePath: "a/LICENSE"}, {RelativePath: "a/NOTICE"}},
		[]snapshot.Record{{RelativePath: "b/OLD"}},
	)
	want := "+ a/LICENSE\n+ a/NOTICE\n- b/OLD\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
