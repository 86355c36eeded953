// Package config loads the .properties-style configuration file that
// drives an assessment run.
package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quay/licenseassess"
)

// Config holds every key the assessment pipeline recognizes. Fields are left
// at the zero value when their key is absent, except FileHashAlgorithm,
// which the parser sets to DefaultFileHashAlgorithm.
type Config struct {
	// SourceDir and DestDir are the root paths for extraction: SourceDir is
	// read, DestDir is where the extracted tree is materialized.
	SourceDir string
	DestDir   string

	// SourceProjectName names the subdirectory under SourceDir and DestDir
	// that a run reads from and extracts into. AssessmentName is the base
	// name of the snapshot file in DataDir and the report file in OutputDir.
	SourceProjectName string
	AssessmentName    string

	// SourceDirIsNetwork and DestDirIsNetwork select backslash path joining
	// for the corresponding root, for UNC-style network paths.
	SourceDirIsNetwork bool
	DestDirIsNetwork   bool

	// IgnoreDirs is the comma-separated list of path substrings that mark a
	// file as not released and excluded from the Reader.
	IgnoreDirs []string

	// SPDXLicensesDir and ManualLicensesDir are exact-match license text
	// corpora.
	SPDXLicensesDir   string
	ManualLicensesDir string
	// SPDXLicenseHeadersDir and ManualLicenseHeadersDir are fuzzy-match
	// header template corpora.
	SPDXLicenseHeadersDir   string
	ManualLicenseHeadersDir string

	// FileHashAlgorithm names the digest algorithm used for ContentHash.
	FileHashAlgorithm string

	// OutputDir holds the CSV report; DataDir holds the snapshot file.
	OutputDir string
	DataDir   string
}

// DefaultFileHashAlgorithm is used when FILE_HASH_ALGORITHM is unset.
const DefaultFileHashAlgorithm = assess.SHA256

// recognized maps a lower-cased, trimmed key to the Config field it sets.
// Using a function table instead of a struct tag scheme keeps the parser a
// single, obvious pass, which is all a dozen keys warrants.
var recognized = map[string]func(*Config, string){
	"source_dir":                 func(c *Config, v string) { c.SourceDir = v },
	"dest_dir":                   func(c *Config, v string) { c.DestDir = v },
	"source_project_name":        func(c *Config, v string) { c.SourceProjectName = v },
	"assessment_name":            func(c *Config, v string) { c.AssessmentName = v },
	"source_dir_is_network":      func(c *Config, v string) { c.SourceDirIsNetwork = isTrue(v) },
	"dest_dir_is_network":        func(c *Config, v string) { c.DestDirIsNetwork = isTrue(v) },
	"ignore_dirs":                func(c *Config, v string) { c.IgnoreDirs = splitCSV(v) },
	"spdx_licenses_dir":          func(c *Config, v string) { c.SPDXLicensesDir = v },
	"manual_licenses_dir":        func(c *Config, v string) { c.ManualLicensesDir = v },
	"spdx_license_headers_dir":   func(c *Config, v string) { c.SPDXLicenseHeadersDir = v },
	"manual_license_headers_dir": func(c *Config, v string) { c.ManualLicenseHeadersDir = v },
	"file_hash_algorithm":        func(c *Config, v string) { c.FileHashAlgorithm = strings.ToLower(v) },
	"output_dir":                 func(c *Config, v string) { c.OutputDir = v },
	"data_dir":                   func(c *Config, v string) { c.DataDir = v },
}

// isTrue matches the source's literal "True" convention: anything else,
// including "true" or "TRUE", is false. Preserved exactly because the
// config format is meant to be drop-in compatible with existing property
// files written for the original tool.
func isTrue(v string) bool { return v == "True" }

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads a .properties-style file from path: lines are split on the
// first '=' or ':'; lines beginning with '#' or ';' (after leading
// whitespace) are comments and blank lines are skipped. No escape
// processing is performed — a value is exactly the text after the
// separator, trimmed of leading/trailing whitespace.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &assess.Error{Op: "config.Load", Kind: assess.ErrConfig, Inner: err}
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the .properties-style format from r. See Load for the exact
// grammar.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{FileHashAlgorithm: DefaultFileHashAlgorithm}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		i := strings.IndexAny(line, "=:")
		if i == -1 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:i]))
		val := strings.TrimSpace(line[i+1:])
		if set, ok := recognized[key]; ok {
			set(cfg, val)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &assess.Error{Op: "config.Parse", Kind: assess.ErrConfig, Inner: err}
	}
	if cfg.SourceDir == "" {
		return nil, &assess.Error{Op: "config.Parse", Kind: assess.ErrConfig, Message: "SOURCE_DIR is required"}
	}
	return cfg, nil
}

// JoinSource and JoinDest join a relative element onto SourceDir/DestDir,
// respecting the network-path backslash convention selected by
// SourceDirIsNetwork/DestDirIsNetwork.
func (c *Config) JoinSource(elem ...string) string { return join(c.SourceDir, c.SourceDirIsNetwork, elem) }
func (c *Config) JoinDest(elem ...string) string   { return join(c.DestDir, c.DestDirIsNetwork, elem) }

func join(root string, network bool, elem []string) string {
	sep := "/"
	if network {
		sep = `\`
	}
	parts := append([]string{strings.TrimRight(root, `/\`)}, elem...)
	return strings.Join(parts, sep)
}

// IsIgnored reports whether path matches any configured ignore entry. An
// entry containing a glob meta-character ("*", "?", "[", "{") is matched as
// a doublestar pattern against the slash-separated path; every other entry
// is matched as a plain substring, per spec.
func (c *Config) IsIgnored(path string) bool {
	normalized := strings.TrimPrefix(filepath.ToSlash(path), "/")
	for _, seg := range c.IgnoreDirs {
		if isGlobPattern(seg) {
			if matched, _ := doublestar.Match(seg, normalized); matched {
				return true
			}
			continue
		}
		if strings.Contains(path, seg) {
			return true
		}
	}
	return false
}

func isGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// SnapshotPath returns the path of the persisted snapshot file:
// DATA_DIR/ASSESSMENT_NAME.json, per the persistence format.
func (c *Config) SnapshotPath() string {
	return join(c.DataDir, false, []string{c.AssessmentName + ".json"})
}

// ReportPath returns the path of the CSV report file:
// OUTPUT_DIR/ASSESSMENT_NAME.csv.
func (c *Config) ReportPath() string {
	return join(c.OutputDir, false, []string{c.AssessmentName + ".csv"})
}
