package assess

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
)

// Supported digest algorithm names, as they appear in the FILE_HASH_ALGORITHM
// configuration key.
const (
	SHA256 = "sha256"
	SHA512 = "sha512"
)

// Digest is a content hash under some algorithm.
//
// It's used throughout the assessment pipeline so that code doesn't need to
// know which hash algorithm a FileRecord's content_hash was produced with.
type Digest struct {
	algo     string
	checksum []byte
	repr     string
}

// Checksum returns the raw checksum bytes.
func (d Digest) Checksum() []byte { return d.checksum }

// Algorithm returns the name of the hash algorithm used for this Digest.
func (d Digest) Algorithm() string { return d.algo }

// Hash returns a fresh instance of the hash algorithm this Digest was
// produced with.
func (d Digest) Hash() hash.Hash {
	h, err := NewHash(d.algo)
	if err != nil {
		panic(err)
	}
	return h
}

// String implements fmt.Stringer, returning "algo:hexdigest".
func (d Digest) String() string {
	return d.repr
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	b := make([]byte, len(d.repr))
	copy(b, d.repr)
	return b, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(t []byte) error {
	i := bytes.IndexByte(t, ':')
	if i == -1 {
		return &DigestError{msg: "invalid digest format"}
	}
	d.algo = string(t[:i])
	t = t[i+1:]
	b := make([]byte, hex.DecodedLen(len(t)))
	if _, err := hex.Decode(b, t); err != nil {
		return &DigestError{msg: "unable to decode digest as hex", inner: err}
	}
	return d.setChecksum(b)
}

// DigestError is the concrete type backing errors returned from Digest's
// methods.
type DigestError struct {
	msg   string
	inner error
}

// Error implements error.
func (e *DigestError) Error() string { return e.msg }

// Unwrap enables errors.Unwrap.
func (e *DigestError) Unwrap() error { return e.inner }

func hashSize(algo string) (int, bool) {
	switch algo {
	case SHA256:
		return sha256.Size, true
	case SHA512:
		return sha512.Size, true
	default:
		return 0, false
	}
}

// NewHash constructs a fresh hash.Hash for the named algorithm.
func NewHash(algo string) (hash.Hash, error) {
	switch algo {
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, &DigestError{msg: fmt.Sprintf("unknown algorithm %q", algo)}
	}
}

func (d *Digest) setChecksum(b []byte) error {
	sz, ok := hashSize(d.algo)
	if !ok {
		return &DigestError{msg: fmt.Sprintf("unknown algorithm %q", d.algo)}
	}
	if l := len(b); l != sz {
		return &DigestError{msg: fmt.Sprintf("bad checksum length: %d", l)}
	}

	el := hex.EncodedLen(sz)
	hl := len(d.algo) + 1
	sb := make([]byte, hl+el)
	copy(sb, d.algo)
	sb[len(d.algo)] = ':'
	hex.Encode(sb[hl:], b)

	d.checksum = b
	d.repr = string(sb)
	return nil
}

// NewDigest constructs a Digest from raw checksum bytes.
func NewDigest(algo string, sum []byte) (Digest, error) {
	d := Digest{algo: algo}
	return d, d.setChecksum(sum)
}

// ParseDigest constructs a Digest from its "algo:hex" string form, ensuring
// it's well-formed.
func ParseDigest(digest string) (Digest, error) {
	d := Digest{}
	return d, d.UnmarshalText([]byte(digest))
}

// EmptyDigest returns the Digest of the empty byte string under the named
// algorithm: the ContentHash every empty FileRecord carries.
func EmptyDigest(algo string) Digest {
	h, err := NewHash(algo)
	if err != nil {
		panic(err)
	}
	d, err := NewDigest(algo, h.Sum(nil))
	if err != nil {
		panic(err)
	}
	return d
}
