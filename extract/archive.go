package extract

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"compress/bzip2"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"github.com/quay/licenseassess"
)

// archiveTargetDir derives the directory a multi-file archive at path
// (relative path rel under destRoot) should be extracted into: by default
// strip_archive_suffix(rel), flattened to rel's parent directory if the
// archive's sole top-level entry shares the archive's stem name.
func archiveTargetDir(path, destRoot, rel string) (string, error) {
	stem := StripArchiveSuffix(rel)
	top, err := topLevelEntries(path)
	if err != nil {
		return "", err
	}
	base := filepath.Base(stem)
	if len(top) == 1 && top[0] == base {
		return filepath.Join(destRoot, filepath.Dir(stem)), nil
	}
	return filepath.Join(destRoot, stem), nil
}

func openHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, n)
	m, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:m], nil
}

// topLevelEntries returns the distinct first path segment of every member
// name in the archive at path, used for the single-top-level-entry
// flattening rule.
func topLevelEntries(path string) ([]string, error) {
	head, err := openHead(path, 8)
	if err != nil {
		return nil, &assess.Error{Op: "extract.topLevelEntries", Kind: assess.ErrArchive, Inner: err}
	}

	switch detectFormat(path, head) {
	case formatZip:
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, &assess.Error{Op: "extract.topLevelEntries", Kind: assess.ErrArchive, Inner: err}
		}
		defer zr.Close()
		seen := make(map[string]bool)
		var out []string
		for _, f := range zr.File {
			top := firstSegment(f.Name)
			if !seen[top] {
				seen[top] = true
				out = append(out, top)
			}
		}
		return out, nil
	case formatAR:
		// ar members are always flat; there's no nested top-level
		// wrapper directory to flatten.
		return nil, nil
	default:
		rc, tr, err := openTarStream(path)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		seen := make(map[string]bool)
		var out []string
		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, &assess.Error{Op: "extract.topLevelEntries", Kind: assess.ErrArchive, Inner: err}
			}
			top := firstSegment(hdr.Name)
			if !seen[top] {
				seen[top] = true
				out = append(out, top)
			}
		}
		return out, nil
	}
}

func firstSegment(name string) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	if i := strings.IndexByte(name, '/'); i != -1 {
		return name[:i]
	}
	return name
}

// openTarStream opens path and wraps it with whatever decompressor its tar
// variant needs, returning the underlying closer (whose Close also closes
// the file) and a ready-to-read tar.Reader.
func openTarStream(path string) (io.Closer, *tar.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &assess.Error{Op: "extract.openTarStream", Kind: assess.ErrIO, Inner: err}
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"), strings.HasSuffix(lower, ".gz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, &assess.Error{Op: "extract.openTarStream", Kind: assess.ErrArchive, Inner: err}
		}
		return multiCloser{f, gr}, tar.NewReader(gr), nil
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return f, tar.NewReader(bzip2.NewReader(f)), nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		xr, err := xz.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, nil, &assess.Error{Op: "extract.openTarStream", Kind: assess.ErrArchive, Inner: err}
		}
		return f, tar.NewReader(xr), nil
	default:
		return f, tar.NewReader(f), nil
	}
}

// multiCloser closes every embedded io.Closer that has one; gzip.Reader
// needs its own Close in addition to the underlying file's.
type multiCloser struct {
	f  io.Closer
	gr io.Closer
}

func (m multiCloser) Close() error {
	err1 := m.gr.Close()
	err2 := m.f.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// extractArchive extracts the archive at path into targetDir, dispatching
// on its detected format.
func extractArchive(path, targetDir string) error {
	head, err := openHead(path, 8)
	if err != nil {
		return &assess.Error{Op: "extract.extractArchive", Kind: assess.ErrIO, Inner: err}
	}
	if err := os.MkdirAll(targetDir, 0o777); err != nil {
		return &assess.Error{Op: "extract.extractArchive", Kind: assess.ErrIO, Inner: err}
	}

	switch detectFormat(path, head) {
	case formatZip:
		return extractZip(path, targetDir)
	case formatAR:
		return extractAR(path, targetDir)
	default:
		return extractTar(path, targetDir)
	}
}

func extractZip(path, targetDir string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return &assess.Error{Op: "extract.extractZip", Kind: assess.ErrArchive, Inner: err}
	}
	defer zr.Close()

	for _, f := range zr.File {
		if hasInvalidPathChars(f.Name) {
			continue
		}
		dst, err := resolveUnder(targetDir, f.Name)
		if err != nil {
			return err // path traversal: fatal to the whole archive
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dst, 0o777); err != nil {
				return &assess.Error{Op: "extract.extractZip", Kind: assess.ErrIO, Inner: err}
			}
			continue
		}
		if err := extractZipMember(f, dst); err != nil {
			return err
		}
	}
	return nil
}

func extractZipMember(f *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o777); err != nil {
		return &assess.Error{Op: "extract.extractZipMember", Kind: assess.ErrIO, Inner: err}
	}
	rc, err := f.Open()
	if err != nil {
		return &assess.Error{Op: "extract.extractZipMember", Kind: assess.ErrArchive, Inner: err}
	}
	defer rc.Close()
	out, err := os.Create(dst)
	if err != nil {
		return &assess.Error{Op: "extract.extractZipMember", Kind: assess.ErrIO, Inner: err}
	}
	defer out.Close()
	if _, err := io.Copy(out, rc); err != nil {
		return &assess.Error{Op: "extract.extractZipMember", Kind: assess.ErrArchive, Inner: err}
	}
	chmodBestEffort(dst, f.Mode())
	return nil
}

func extractTar(path, targetDir string) error {
	closer, tr, err := openTarStream(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &assess.Error{Op: "extract.extractTar", Kind: assess.ErrArchive, Inner: err}
		}
		switch hdr.Typeflag {
		case tar.TypeReg, tar.TypeRegA:
		case tar.TypeDir:
			dst, err := resolveUnder(targetDir, hdr.Name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dst, 0o777); err != nil {
				return &assess.Error{Op: "extract.extractTar", Kind: assess.ErrIO, Inner: err}
			}
			continue
		default:
			continue // symlinks, devices, FIFOs, hardlinks: skipped
		}
		if hasInvalidPathChars(hdr.Name) {
			continue
		}
		dst, err := resolveUnder(targetDir, hdr.Name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o777); err != nil {
			return &assess.Error{Op: "extract.extractTar", Kind: assess.ErrIO, Inner: err}
		}
		out, err := os.Create(dst)
		if err != nil {
			return &assess.Error{Op: "extract.extractTar", Kind: assess.ErrIO, Inner: err}
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return &assess.Error{Op: "extract.extractTar", Kind: assess.ErrArchive, Inner: err}
		}
		out.Close()
		chmodBestEffort(dst, hdr.FileInfo().Mode())
	}
	return nil
}

// extractAR extracts a Unix ar container's members as flat files under
// targetDir, skipping the synthetic symbol-table members ("/" and "//")
// GNU ar and some package formats include.
func extractAR(path, targetDir string) error {
	f, err := os.Open(path)
	if err != nil {
		return &assess.Error{Op: "extract.extractAR", Kind: assess.ErrIO, Inner: err}
	}
	defer f.Close()

	magic := make([]byte, len(arMagic))
	if _, err := io.ReadFull(f, magic); err != nil || string(magic) != arMagic {
		return &assess.Error{Op: "extract.extractAR", Kind: assess.ErrArchive, Message: "missing ar magic"}
	}

	ar := newARReader(f)
	for {
		entry, err := ar.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &assess.Error{Op: "extract.extractAR", Kind: assess.ErrArchive, Inner: err}
		}
		if entry.Name == "/" || entry.Name == "//" || entry.Name == "" {
			io.CopyN(io.Discard, ar.r, entry.Size)
			if entry.Size%2 == 1 {
				ar.r.Discard(1)
				ar.pad = false
			}
			continue
		}
		if hasInvalidPathChars(entry.Name) {
			io.CopyN(io.Discard, ar.r, entry.Size)
			continue
		}
		dst, err := resolveUnder(targetDir, entry.Name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o777); err != nil {
			return &assess.Error{Op: "extract.extractAR", Kind: assess.ErrIO, Inner: err}
		}
		out, err := os.Create(dst)
		if err != nil {
			return &assess.Error{Op: "extract.extractAR", Kind: assess.ErrIO, Inner: err}
		}
		if _, err := io.CopyN(out, ar.memberReader(entry.Size), entry.Size); err != nil {
			out.Close()
			return &assess.Error{Op: "extract.extractAR", Kind: assess.ErrArchive, Inner: err}
		}
		out.Close()
	}
	return nil
}
