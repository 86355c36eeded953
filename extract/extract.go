package extract

import (
	"archive/zip"
	"bufio"
	"compress/bzip2"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/quay/zlog"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"github.com/quay/licenseassess"
)

func init() {
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
}

// Extract materializes source beneath destination such that no multi-file
// archive and no single-file compressed file remains anywhere in the
// resulting tree.
//
// It runs in two phases: a copy-with-extraction walk of source into
// destination, then a fixed-point walk of destination that extracts
// whatever the first pass produced, until a pass makes no further change.
func Extract(ctx context.Context, source, destination string) error {
	if err := os.MkdirAll(destination, 0o777); err != nil {
		return &assess.Error{Op: "extract.Extract", Kind: assess.ErrIO, Inner: err}
	}
	if err := copyWithExtraction(ctx, source, destination); err != nil {
		return err
	}
	return fixedPoint(ctx, destination)
}

func splitDirs(dir string) []string {
	if dir == "." || dir == "" {
		return nil
	}
	return strings.Split(filepath.ToSlash(dir), "/")
}

// copyWithExtraction is algorithm phase 1.
func copyWithExtraction(ctx context.Context, source, destination string) error {
	return filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			zlog.Error(ctx).Err(err).Str("path", path).Msg("extract: skipping unreadable source path")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return nil
		}
		ancestors := splitDirs(filepath.Dir(rel))
		dstPlain := filepath.Join(destination, rel)

		switch Classify(rel, ancestors) {
		case KindSingleCompressed:
			dst := filepath.Join(destination, StripArchiveSuffix(rel))
			if err := decompressFile(path, dst); err != nil {
				zlog.Error(ctx).Err(err).Str("path", rel).Msg("extract: corrupt compressed file, copying as-is")
				return copyPlainFile(path, dstPlain)
			}
			return nil
		case KindMultiArchive:
			target, err := archiveTargetDir(path, destination, rel)
			if err != nil {
				zlog.Error(ctx).Err(err).Str("path", rel).Msg("extract: corrupt archive, copying as-is")
				return copyPlainFile(path, dstPlain)
			}
			if err := extractArchive(path, target); err != nil {
				zlog.Error(ctx).Err(err).Str("path", rel).Msg("extract: corrupt archive, copying as-is")
				return copyPlainFile(path, dstPlain)
			}
			return nil
		default:
			return copyPlainFile(path, dstPlain)
		}
	})
}

// fixedPoint is algorithm phase 2: repeated passes over destination until
// one makes no change, tracking every absolute path already visited so a
// pass doesn't reprocess a file it already handled (successfully or not).
func fixedPoint(ctx context.Context, destination string) error {
	seen := make(map[string]bool)
	for {
		changed := false
		err := filepath.WalkDir(destination, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				return nil
			}
			abs, err := filepath.Abs(path)
			if err != nil || seen[abs] {
				return nil
			}
			seen[abs] = true

			rel, err := filepath.Rel(destination, path)
			if err != nil {
				return nil
			}
			ancestors := splitDirs(filepath.Dir(rel))
			switch Classify(rel, ancestors) {
			case KindSingleCompressed:
				changed = true
				dst := filepath.Join(destination, StripArchiveSuffix(rel))
				if err := decompressFile(path, dst); err != nil {
					zlog.Error(ctx).Err(err).Str("path", rel).Msg("extract: corrupt compressed file, leaving in place")
					return nil
				}
				return os.Remove(path)
			case KindMultiArchive:
				changed = true
				return extractInPlace(ctx, destination, path, rel)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
}

// extractInPlace extracts the archive at path (relative path rel under
// destination) and unlinks the original, handling the case where the
// derived target directory collides with the archive file itself (the
// layer-blob heuristic: a hex-named file with no extension extracts into a
// directory that would have to share its name).
func extractInPlace(ctx context.Context, destination, path, rel string) error {
	target, err := archiveTargetDir(path, destination, rel)
	if err != nil {
		zlog.Error(ctx).Err(err).Str("path", rel).Msg("extract: corrupt archive, leaving in place")
		return nil
	}

	extractTo := target
	collide := target == path
	if collide {
		extractTo = target + "_extracted"
	}
	if err := extractArchive(path, extractTo); err != nil {
		zlog.Error(ctx).Err(err).Str("path", rel).Msg("extract: corrupt archive, leaving in place")
		return nil
	}
	if err := os.Remove(path); err != nil {
		zlog.Error(ctx).Err(err).Str("path", rel).Msg("extract: could not unlink extracted archive")
	}
	if collide {
		return os.Rename(extractTo, target)
	}
	return nil
}

// copyPlainFile copies src to dst verbatim, creating dst's parent
// directories as needed and mirroring src's permission bits best-effort.
func copyPlainFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o777); err != nil {
		return &assess.Error{Op: "extract.copyPlainFile", Kind: assess.ErrIO, Inner: err}
	}
	in, err := os.Open(src)
	if err != nil {
		return &assess.Error{Op: "extract.copyPlainFile", Kind: assess.ErrIO, Inner: err}
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return &assess.Error{Op: "extract.copyPlainFile", Kind: assess.ErrIO, Inner: err}
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return &assess.Error{Op: "extract.copyPlainFile", Kind: assess.ErrIO, Inner: err}
	}
	if fi, err := os.Stat(src); err == nil {
		chmodBestEffort(dst, fi.Mode())
	}
	return nil
}

// decompressFile decompresses the single-file-compressed archive at src,
// writing the decompressed bytes to dst.
func decompressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &assess.Error{Op: "extract.decompressFile", Kind: assess.ErrIO, Inner: err}
	}
	defer in.Close()

	var r io.Reader
	switch {
	case strings.HasSuffix(strings.ToLower(src), ".gz"):
		gr, err := gzip.NewReader(in)
		if err != nil {
			return &assess.Error{Op: "extract.decompressFile", Kind: assess.ErrArchive, Inner: err}
		}
		defer gr.Close()
		r = gr
	case strings.HasSuffix(strings.ToLower(src), ".bz2"):
		r = bzip2.NewReader(in)
	case strings.HasSuffix(strings.ToLower(src), ".xz"):
		xr, err := xz.NewReader(bufio.NewReader(in))
		if err != nil {
			return &assess.Error{Op: "extract.decompressFile", Kind: assess.ErrArchive, Inner: err}
		}
		r = xr
	case strings.HasSuffix(strings.ToLower(src), ".lzma"):
		lr, err := lzma.NewReader(bufio.NewReader(in))
		if err != nil {
			return &assess.Error{Op: "extract.decompressFile", Kind: assess.ErrArchive, Inner: err}
		}
		r = lr
	default:
		return &assess.Error{Op: "extract.decompressFile", Kind: assess.ErrArchive, Message: "unrecognized compression suffix"}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o777); err != nil {
		return &assess.Error{Op: "extract.decompressFile", Kind: assess.ErrIO, Inner: err}
	}
	out, err := os.Create(dst)
	if err != nil {
		return &assess.Error{Op: "extract.decompressFile", Kind: assess.ErrIO, Inner: err}
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return &assess.Error{Op: "extract.decompressFile", Kind: assess.ErrArchive, Inner: err}
	}
	return nil
}

func chmodBestEffort(path string, mode fs.FileMode) {
	if isWindows() {
		return
	}
	_ = os.Chmod(path, mode&0o777)
}
