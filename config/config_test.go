package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	const src = `
# a comment
; also a comment

SOURCE_DIR = /srv/source
DEST_DIR: /srv/dest
SOURCE_PROJECT_NAME=widget
ASSESSMENT_NAME = widget-2026-07-31
SOURCE_DIR_IS_NETWORK = True
IGNORE_DIRS = .git, node_modules , vendor
SPDX_LICENSES_DIR=/corpus/spdx/licenses
FILE_HASH_ALGORITHM = SHA512
OUTPUT_DIR=/srv/out
DATA_DIR=/srv/data
unknown_key = should be ignored
`
	cfg, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	want := &Config{
		SourceDir:          "/srv/source",
		DestDir:            "/srv/dest",
		SourceProjectName:  "widget",
		AssessmentName:     "widget-2026-07-31",
		SourceDirIsNetwork: true,
		IgnoreDirs:         []string{".git", "node_modules", "vendor"},
		SPDXLicensesDir:    "/corpus/spdx/licenses",
		FileHashAlgorithm:  "sha512",
		OutputDir:          "/srv/out",
		DataDir:            "/srv/data",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Error(diff)
	}
}

func TestParseMissingSourceDir(t *testing.T) {
	_, err := Parse(strings.NewReader("DEST_DIR=/tmp\n"))
	if err == nil {
		t.Fatal("expected an error for missing SOURCE_DIR")
	}
}

func TestIsIgnored(t *testing.T) {
	cfg := &Config{IgnoreDirs: []string{"/node_modules/", "/.git/"}}
	tt := []struct {
		Path string
		Want bool
	}{
		{"/proj/node_modules/leftpad/index.js", true},
		{"/proj/.git/HEAD", true},
		{"/proj/src/main.go", false},
	}
	for _, tc := range tt {
		if got := cfg.IsIgnored(tc.Path); got != tc.Want {
			t.Errorf("IsIgnored(%q) = %v, want %v", tc.Path, got, tc.Want)
		}
	}
}

func TestIsIgnoredGlob(t *testing.T) {
	cfg := &Config{IgnoreDirs: []string{"**/*_test.go", "**/vendor/**"}}
	tt := []struct {
		Path string
		Want bool
	}{
		{"/proj/pkg/widget_test.go", true},
		{"/proj/vendor/github.com/foo/bar.go", true},
		{"/proj/pkg/widget.go", false},
	}
	for _, tc := range tt {
		if got := cfg.IsIgnored(tc.Path); got != tc.Want {
			t.Errorf("IsIgnored(%q) = %v, want %v", tc.Path, got, tc.Want)
		}
	}
}

func TestSnapshotPath(t *testing.T) {
	cfg := &Config{DataDir: "/srv/data", AssessmentName: "widget"}
	if got, want := cfg.SnapshotPath(), "/srv/data/widget.json"; got != want {
		t.Errorf("SnapshotPath() = %q, want %q", got, want)
	}
}

func TestReportPath(t *testing.T) {
	cfg := &Config{OutputDir: "/srv/out", AssessmentName: "widget"}
	if got, want := cfg.ReportPath(), "/srv/out/widget.csv"; got != want {
		t.Errorf("ReportPath() = %q, want %q", got, want)
	}
}
