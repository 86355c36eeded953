package extract

import "strings"

// format identifies how a multi-file archive's bytes are framed, independent
// of Classify's plain/single/multi distinction.
type format int

const (
	formatUnknown format = iota
	formatZip
	formatTar
	formatTarGz
	formatTarBz2
	formatTarXz
	formatAR
)

// detectFormat picks the format for a file already classified as a
// multi-file archive, consulting the magic bytes for the ar/rpm/deb case
// (whose extension alone, .rpm/.deb, doesn't say "ar").
func detectFormat(name string, head []byte) format {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"), strings.HasSuffix(lower, ".jar"):
		return formatZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return formatTarGz
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return formatTarBz2
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return formatTarXz
	case strings.HasSuffix(lower, ".tar"):
		return formatTar
	case strings.HasSuffix(lower, ".rpm"), strings.HasSuffix(lower, ".deb"):
		return formatAR
	}
	if IsARArchive(head) {
		return formatAR
	}
	// No recognized extension: the OCI layer-blob heuristic names a file
	// with no extension at all, whose bytes are a plain tar stream.
	return formatTar
}
