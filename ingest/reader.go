// Package ingest implements the Reader stage: it walks an extraction root
// and produces one FileRecord per file, skipping anything under a
// configured ignore segment.
package ingest

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/quay/zlog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/quay/licenseassess"
)

// chunkSize is the streaming hash read size: 8 MiB, per spec.
const chunkSize = 8 << 20

// IgnoreChecker reports whether a path should be excluded from the
// registry; *config.Config satisfies this via its IsIgnored method, kept
// as an interface here so ingest doesn't import config directly.
type IgnoreChecker interface {
	IsIgnored(path string) bool
}

// Concurrency returns the default reader worker-pool size: min(32,
// 2*NumCPU), the same bound the Indexer uses.
func Concurrency() int {
	n := 2 * runtime.NumCPU()
	if n > 32 {
		n = 32
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Read walks root, builds a FileRecord for every file not excluded by
// ignore, and inserts each into reg. hashAlgo names the digest algorithm
// (see assess.SHA256/assess.SHA512) used for ContentHash.
//
// File reads run across a bounded worker pool; the registry absorbs
// concurrent inserts safely. The first per-file error that isn't itself an
// I/O read failure (which is logged and skipped, per spec) cancels the
// remaining work and is returned.
func Read(ctx context.Context, root string, ignore IgnoreChecker, hashAlgo string, reg *assess.Registry) error {
	if _, err := assess.NewHash(hashAlgo); err != nil {
		return &assess.Error{Op: "ingest.Read", Kind: assess.ErrIO, Inner: err}
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(Concurrency())

	// fdLimiter bounds how fast the worker pool opens files: a best-effort
	// cap on concurrent os.Open calls so an extremely wide tree doesn't
	// exhaust file descriptors faster than the disk can actually service
	// reads. Burst equals the pool size so ordinary runs never wait on it.
	fdLimiter := rate.NewLimiter(rate.Limit(Concurrency()*4), Concurrency())

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ignore != nil && ignore.IsIgnored(path) {
			return nil
		}

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := fdLimiter.Wait(ctx); err != nil {
				return err
			}
			rec, err := buildRecord(path, root, hashAlgo)
			if err != nil {
				zlog.Error(ctx).Err(err).Str("path", path).Msg("ingest: skipping unreadable file")
				return nil
			}
			// Read already filtered out anything ignore.IsIgnored reports
			// true for, so every record reaching the registry is released.
			rec.IsReleased = true
			reg.Insert(path, rec)
			return nil
		})
		return nil
	})
	if err != nil {
		return &assess.Error{Op: "ingest.Read", Kind: assess.ErrIO, Inner: err}
	}
	if err := g.Wait(); err != nil {
		return &assess.Error{Op: "ingest.Read", Kind: assess.ErrIO, Inner: err}
	}
	return nil
}

// buildRecord reads path once, computing its content hash in chunkSize
// chunks, then decodes it as UTF-8 (strict, falling back to lossy
// replacement on invalid sequences).
func buildRecord(path, root, hashAlgo string) (*assess.FileRecord, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &assess.Error{Op: "ingest.buildRecord", Kind: assess.ErrIO, Inner: err}
	}
	defer f.Close()

	h, err := assess.NewHash(hashAlgo)
	if err != nil {
		return nil, &assess.Error{Op: "ingest.buildRecord", Kind: assess.ErrIO, Inner: err}
	}

	var raw []byte
	buf := make([]byte, chunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			raw = append(raw, buf[:n]...)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, &assess.Error{Op: "ingest.buildRecord", Kind: assess.ErrIO, Inner: rerr}
		}
	}

	digest, err := assess.NewDigest(hashAlgo, h.Sum(nil))
	if err != nil {
		return nil, &assess.Error{Op: "ingest.buildRecord", Kind: assess.ErrIO, Inner: err}
	}

	// filepath.Ext already returns the whole filename for a dot-prefixed
	// file with no further suffix (e.g. ".gitignore"), since it scans for
	// the last '.' without requiring anything to follow it.
	ext := filepath.Ext(path)

	rec := &assess.FileRecord{
		Path:         path,
		RelativePath: rel,
		RawBytes:     raw,
		Text:         decodeText(raw),
		IsEmpty:      len(raw) == 0,
		ContentHash:  digest,
		Extension:    strings.ToLower(ext),
	}
	return rec, nil
}

// decodeText performs a strict UTF-8 decode, falling back to lossy
// replacement-character decoding only if the bytes are not valid UTF-8.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}
