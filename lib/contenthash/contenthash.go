// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
)

// Size is the length of a digest in bytes.
const Size = sha256.Size

// Digest is a SHA-256 digest.
type Digest [Size]byte

// String returns the lowercase hex encoding.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

var (
	// ErrRead marks a failure of the source stream partway through
	// hashing.
	ErrRead = errors.New("reading content for hashing")

	// ErrMismatch marks content whose digest differs from the
	// expected one.
	ErrMismatch = errors.New("content digest mismatch")
)

// Sum hashes everything readable from source and closes it. It
// returns the digest and the number of bytes hashed.
func Sum(source io.ReadCloser) (Digest, int64, error) {
	defer source.Close()

	hasher := sha256.New()
	n, err := io.Copy(hasher, source)
	if err != nil {
		return Digest{}, 0, fmt.Errorf("%w (after %d bytes): %w", ErrRead, n, err)
	}

	var digest Digest
	hasher.Sum(digest[:0])
	return digest, n, nil
}

// SumBytes hashes an in-memory buffer.
func SumBytes(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}

// SumFile hashes the file at path.
func SumFile(path string) (Digest, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, 0, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	digest, n, err := Sum(file)
	if err != nil {
		return Digest{}, 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return digest, n, nil
}

// FormatDigest returns the hex-encoded string representation of a
// digest. This is the form used for object ids and in log output.
func FormatDigest(digest Digest) string {
	return digest.String()
}

// ParseDigest parses a hex-encoded SHA-256 digest. Returns an error if
// the string is not a valid 64-character hex encoding of 32 bytes.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	if len(decoded) != Size {
		return digest, fmt.Errorf("hash digest is %d bytes, want %d", len(decoded), Size)
	}
	copy(digest[:], decoded)
	return digest, nil
}

// VerifyingReader passes reads through while hashing them. At end of
// stream it returns an error wrapping ErrMismatch instead of io.EOF if
// the content does not hash to the expected digest.
type VerifyingReader struct {
	source io.Reader
	hasher hash.Hash
	want   Digest
	n      int64
}

// NewVerifyingReader wraps source, expecting it to hash to want.
func NewVerifyingReader(source io.Reader, want Digest) *VerifyingReader {
	return &VerifyingReader{source: source, hasher: sha256.New(), want: want}
}

func (v *VerifyingReader) Read(p []byte) (int, error) {
	n, err := v.source.Read(p)
	v.hasher.Write(p[:n])
	v.n += int64(n)
	if err == io.EOF {
		var got Digest
		v.hasher.Sum(got[:0])
		if got != v.want {
			return n, fmt.Errorf("%w: %d bytes hash to %s, want %s", ErrMismatch, v.n, got, v.want)
		}
	}
	return n, err
}
