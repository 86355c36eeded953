// Package extract implements the Extractor stage: it materializes an
// extraction source beneath a destination tree such that no multi-file
// archive and no single-file compressed file remain anywhere in it.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Kind classifies a file by name for extraction purposes.
type Kind int

// Defined classification kinds.
const (
	KindPlain Kind = iota
	KindMultiArchive
	KindSingleCompressed
)

var hexNameRE = regexp.MustCompile(`^[0-9a-fA-F]{32,128}$`)

// multiArchiveSuffixes lists the recognized multi-file-archive suffixes,
// with each compound form (".tar.gz") ahead of its shorter tail.
var multiArchiveSuffixes = []string{
	".tar.gz", ".tgz",
	".tar.bz2", ".tbz2",
	".tar.xz", ".txz",
	".tar",
	".zip",
	".jar",
	".rpm",
	".deb",
}

var singleCompressedSuffixes = []string{".bz2", ".xz", ".lzma", ".gz"}

// Classify reports the Kind of the file at relPath, given the list of
// ancestor directory names between the extraction root and this file (used
// for the OCI/Docker layer-blob heuristic: a 32-128 hex-character filename
// with no extension, under some ancestor directory literally named
// "sha256").
func Classify(relPath string, ancestors []string) Kind {
	base := filepath.Base(relPath)
	lower := strings.ToLower(base)

	for _, suf := range multiArchiveSuffixes {
		if strings.HasSuffix(lower, suf) {
			return KindMultiArchive
		}
	}

	if strings.HasSuffix(lower, ".gz") {
		stem := strings.TrimSuffix(base, base[len(base)-3:])
		if !strings.Contains(stem, ".") {
			return KindMultiArchive
		}
		return KindSingleCompressed
	}

	if filepath.Ext(base) == "" && hexNameRE.MatchString(base) {
		for _, a := range ancestors {
			if a == "sha256" {
				return KindMultiArchive
			}
		}
	}

	for _, suf := range singleCompressedSuffixes {
		if suf == ".gz" {
			continue // handled above
		}
		if strings.HasSuffix(lower, suf) {
			return KindSingleCompressed
		}
	}

	return KindPlain
}

// StripArchiveSuffix removes the recognized archive suffix from name,
// returning the stem used to derive the default extraction target
// directory (for multi-archives) or the decompressed file name (for
// single-file compressed files).
func StripArchiveSuffix(name string) string {
	lower := strings.ToLower(name)
	for _, suf := range multiArchiveSuffixes {
		if strings.HasSuffix(lower, suf) {
			return name[:len(name)-len(suf)]
		}
	}
	if strings.HasSuffix(lower, ".gz") {
		return name[:len(name)-3]
	}
	for _, suf := range singleCompressedSuffixes {
		if strings.HasSuffix(lower, suf) {
			return name[:len(name)-len(suf)]
		}
	}
	return name
}

// IsARArchive reports whether the first bytes of a file match the Unix ar
// archive magic, the outer container format .rpm and .deb files use.
func IsARArchive(head []byte) bool {
	const magic = "!<arch>\n"
	return len(head) >= len(magic) && string(head[:len(magic)]) == magic
}
