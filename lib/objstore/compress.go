// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a file object's content is stored. The
// value is the first byte of every file object; changing the values
// breaks existing repositories.
type Compression uint8

const (
	// CompressionNone stores content verbatim. Used for content that
	// is already compressed.
	CompressionNone Compression = 0

	// CompressionLZ4 stores an LZ4 frame. Fast, modest ratio.
	CompressionLZ4 Compression = 1

	// CompressionZstd stores a zstd frame at the default level.
	// Better ratios for text, configs, and most binaries.
	CompressionZstd Compression = 2
)

// String returns the human-readable name of a compression tag.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// CompressionPolicy is how Commit picks a Compression per file.
type CompressionPolicy string

const (
	// PolicyAuto probes each file's leading bytes; see
	// SelectCompression.
	PolicyAuto CompressionPolicy = "auto"
	PolicyNone CompressionPolicy = "none"
	PolicyLZ4  CompressionPolicy = "lz4"
	PolicyZstd CompressionPolicy = "zstd"
)

// ParseCompressionPolicy parses a policy name. The empty string is
// PolicyAuto.
func ParseCompressionPolicy(name string) (CompressionPolicy, error) {
	switch CompressionPolicy(name) {
	case "", PolicyAuto:
		return PolicyAuto, nil
	case PolicyNone, PolicyLZ4, PolicyZstd:
		return CompressionPolicy(name), nil
	default:
		return "", fmt.Errorf("unknown compression %q (want auto, none, lz4, or zstd)", name)
	}
}

// probeSize is how much of a file SelectCompression looks at.
const probeSize = 64 * 1024

// Thresholds for SelectCompression, as zstd compression ratios
// measured on the probe.
const (
	zstdThreshold = 1.5
	lz4Threshold  = 1.1
)

// probeEncoder compresses probes. EncodeAll is safe for concurrent
// use.
var probeEncoder *zstd.Encoder

func init() {
	var err error
	probeEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		panic("objstore: zstd encoder initialization failed: " + err.Error())
	}
}

// SelectCompression picks a Compression for content beginning with
// probe. Content that compresses well gets zstd, content that barely
// compresses gets lz4, and incompressible content (media, archives)
// is stored as is. Probes too small to judge are stored as is.
func SelectCompression(probe []byte) Compression {
	if len(probe) < 64 {
		return CompressionNone
	}
	compressed := probeEncoder.EncodeAll(probe, make([]byte, 0, len(probe)))
	ratio := float64(len(probe)) / float64(max(len(compressed), 1))
	switch {
	case ratio >= zstdThreshold:
		return CompressionZstd
	case ratio >= lz4Threshold:
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// choose resolves a policy against a probe.
func (p CompressionPolicy) choose(probe []byte) Compression {
	switch p {
	case PolicyNone:
		return CompressionNone
	case PolicyLZ4:
		return CompressionLZ4
	case PolicyZstd:
		return CompressionZstd
	default:
		return SelectCompression(probe)
	}
}

// nopWriteCloser adapts a writer for CompressionNone.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// newCompressWriter returns a writer that compresses into w. Close
// flushes the frame but does not close w.
func newCompressWriter(w io.Writer, compression Compression) (io.WriteCloser, error) {
	switch compression {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return encoder, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}

// newDecompressReader returns a reader of the content stored in r.
// Close releases decoder resources but does not close r.
func newDecompressReader(r io.Reader, compression Compression) (io.ReadCloser, error) {
	switch compression {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionZstd:
		decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return decoder.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}
