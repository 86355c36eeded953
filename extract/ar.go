package extract

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/quay/licenseassess"
)

// arMagic is the global header every Unix ar archive begins with. .rpm and
// .deb files both use ar as their outer container, per
// original_source/tools/assessment_extractor.py.
const arMagic = "!<arch>\n"

// arEntry is one member of an ar archive: a name and its exact byte size.
// The member's bytes are the next Size bytes read from the archive's
// underlying reader, immediately after the entry is yielded.
type arEntry struct {
	Name string
	Size int64
}

// arReader walks the fixed 60-byte headers of a Unix ar archive.
type arReader struct {
	r   *bufio.Reader
	pad bool // true if the previous member's content needs a pad byte consumed first
}

// newARReader constructs an arReader over r, which must already have had
// the magic header consumed (see IsARArchive).
func newARReader(r io.Reader) *arReader {
	return &arReader{r: bufio.NewReader(r)}
}

// Next returns the next member header, or io.EOF when the archive is
// exhausted.
func (a *arReader) Next() (arEntry, error) {
	if a.pad {
		if _, err := a.r.Discard(1); err != nil && err != io.EOF {
			return arEntry{}, &assess.Error{Op: "extract.arReader.Next", Kind: assess.ErrArchive, Inner: err}
		}
		a.pad = false
	}

	hdr := make([]byte, 60)
	if _, err := io.ReadFull(a.r, hdr); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return arEntry{}, err
	}

	name := strings.TrimRight(string(hdr[0:16]), " ")
	name = strings.TrimSuffix(name, "/") // GNU ar appends a trailing slash
	sizeField := strings.TrimSpace(string(hdr[48:58]))
	size, err := strconv.ParseInt(sizeField, 10, 64)
	if err != nil {
		return arEntry{}, &assess.Error{Op: "extract.arReader.Next", Kind: assess.ErrArchive, Message: "malformed ar member size", Inner: err}
	}

	a.pad = size%2 == 1
	return arEntry{Name: name, Size: size}, nil
}

// memberReader returns an io.Reader limited to the current member's
// remaining bytes. Callers must fully read it (or discard the remainder)
// before calling Next again.
func (a *arReader) memberReader(size int64) io.Reader {
	return io.LimitReader(a.r, size)
}
