// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"bufio"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bureau-foundation/swidtree/lib/codec"
	"github.com/bureau-foundation/swidtree/lib/contenthash"
	"github.com/bureau-foundation/swidtree/lib/snapshot"
)

// ObjectType is the kind of an object, and its file extension.
type ObjectType string

const (
	ObjectFile    ObjectType = "file"
	ObjectDirTree ObjectType = "dirtree"
	ObjectCommit  ObjectType = "commit"
)

// ErrCorrupt marks an object whose bytes do not hash to its id.
var ErrCorrupt = errors.New("corrupt object")

// DirTree is one directory's listing. Entries are sorted by name.
type DirTree struct {
	Entries []DirEntry `cbor:"entries"`
}

// DirEntry is one child in a DirTree.
type DirEntry struct {
	Name string        `cbor:"name"`
	Kind snapshot.Kind `cbor:"kind"`
	// Target is the object id of a file's content or a directory's
	// DirTree. Empty for symlinks and special files.
	Target string `cbor:"target,omitempty"`
	Mode   uint32 `cbor:"mode"`
	// Link is a symlink's target path.
	Link string `cbor:"link,omitempty"`
	// Size is a regular file's uncompressed length.
	Size int64 `cbor:"size,omitempty"`
}

// Commit is a snapshot of a tree.
type Commit struct {
	Tree      string    `cbor:"tree"`
	Parent    string    `cbor:"parent,omitempty"`
	Subject   string    `cbor:"subject,omitempty"`
	Timestamp time.Time `cbor:"timestamp"`
}

// ValidateID checks that id is a lowercase hex SHA-256.
func ValidateID(id string) error {
	digest, err := contenthash.ParseDigest(id)
	if err != nil {
		return fmt.Errorf("invalid object id %q: %w", id, err)
	}
	if digest.String() != id {
		return fmt.Errorf("invalid object id %q: not lowercase hex", id)
	}
	return nil
}

func (r *Repo) objectPath(id string, objectType ObjectType) string {
	return filepath.Join(r.root, objectsDir, id[:2], id[2:]+"."+string(objectType))
}

// HasObject reports whether an object exists.
func (r *Repo) HasObject(id string, objectType ObjectType) bool {
	if ValidateID(id) != nil {
		return false
	}
	_, err := os.Stat(r.objectPath(id, objectType))
	return err == nil
}

// writeRecord stores v as a CBOR object and returns its id.
func (r *Repo) writeRecord(objectType ObjectType, v any) (string, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", objectType, err)
	}
	id := contenthash.SumBytes(data).String()
	if r.HasObject(id, objectType) {
		return id, nil
	}
	err = r.writeAtomic(string(objectType)+"-*", func(w io.Writer) (string, error) {
		_, err := w.Write(data)
		return r.objectPath(id, objectType), err
	})
	if err != nil {
		return "", fmt.Errorf("writing %s %s: %w", objectType, id, err)
	}
	return id, nil
}

// readRecord loads a CBOR object and checks its id.
func (r *Repo) readRecord(objectType ObjectType, id string, v any) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	data, err := os.ReadFile(r.objectPath(id, objectType))
	if err != nil {
		return fmt.Errorf("reading %s %s: %w", objectType, id, err)
	}
	if got := contenthash.SumBytes(data).String(); got != id {
		return fmt.Errorf("%s %s: %w (content hashes to %s)", objectType, id, ErrCorrupt, got)
	}
	if err := codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s %s: %w", objectType, id, err)
	}
	return nil
}

// ReadCommit loads a commit object.
func (r *Repo) ReadCommit(id string) (*Commit, error) {
	var commit Commit
	if err := r.readRecord(ObjectCommit, id, &commit); err != nil {
		return nil, err
	}
	return &commit, nil
}

// ReadDirTree loads a directory tree object.
func (r *Repo) ReadDirTree(id string) (*DirTree, error) {
	var tree DirTree
	if err := r.readRecord(ObjectDirTree, id, &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

// WriteContent stores file content read from source and returns its
// id (the SHA-256 of the content) and length. The compression is
// chosen from the repository policy.
func (r *Repo) WriteContent(source io.Reader) (string, int64, error) {
	buffered := bufio.NewReaderSize(source, probeSize)
	probe, err := buffered.Peek(probeSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", 0, fmt.Errorf("reading content: %w", err)
	}
	compression := r.config.Compression.choose(probe)

	var id string
	var size int64
	err = r.writeAtomic("file-*", func(w io.Writer) (string, error) {
		if _, err := w.Write([]byte{byte(compression)}); err != nil {
			return "", err
		}
		compressor, err := newCompressWriter(w, compression)
		if err != nil {
			return "", err
		}
		hasher := sha256.New()
		n, err := io.Copy(io.MultiWriter(compressor, hasher), buffered)
		if err != nil {
			compressor.Close()
			return "", fmt.Errorf("copying content: %w", err)
		}
		if err := compressor.Close(); err != nil {
			return "", fmt.Errorf("finishing %s stream: %w", compression, err)
		}
		var digest contenthash.Digest
		hasher.Sum(digest[:0])
		id = digest.String()
		size = n
		return r.objectPath(id, ObjectFile), nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("writing file object: %w", err)
	}
	r.logger.Debug("stored content", "id", id, "size", size, "compression", compression.String())
	return id, size, nil
}

// OpenObject opens a file object's content. The stream verifies the
// content against id when read to the end.
func (r *Repo) OpenObject(id string) (io.ReadCloser, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	digest, _ := contenthash.ParseDigest(id)

	file, err := os.Open(r.objectPath(id, ObjectFile))
	if err != nil {
		return nil, fmt.Errorf("opening file object %s: %w", id, err)
	}
	reader := bufio.NewReader(file)
	tag, err := reader.ReadByte()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("file object %s: reading header: %w", id, err)
	}
	decompressor, err := newDecompressReader(reader, Compression(tag))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("file object %s: %w", id, err)
	}
	return &objectReader{
		Reader:       contenthash.NewVerifyingReader(decompressor, digest),
		decompressor: decompressor,
		file:         file,
	}, nil
}

type objectReader struct {
	io.Reader
	decompressor io.Closer
	file         *os.File
}

func (o *objectReader) Close() error {
	o.decompressor.Close()
	return o.file.Close()
}

// isNotExist reports whether err is a missing-file error.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
