// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package coswid

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/bureau-foundation/swidtree/lib/codec"
)

func sampleTag() *Tag {
	hello := File{FSName: "hello.txt", Root: RootPath, Hash: SHA256Entry(sha256.Sum256([]byte("hi")))}
	readme := File{FSName: "README", Root: RootPath, Hash: SHA256Entry(sha256.Sum256(nil))}
	etc := Directory{
		FSName: "etc",
		Root:   RootPath,
		PathElements: &PathElements{
			File: Collapse([]File{hello, readme}),
		},
	}
	empty := Directory{FSName: "empty", Root: RootPath, PathElements: &PathElements{}}
	root := Directory{
		Root: RootPath,
		PathElements: &PathElements{
			Directory: Collapse([]Directory{etc, empty}),
			File:      One(hello),
		},
	}
	return &Tag{
		TagID:           "org.fedoraproject.iot.x86_64.stable",
		TagVersion:      0,
		Corpus:          Bool(true),
		Patch:           Bool(false),
		Supplemental:    Bool(false),
		SoftwareName:    "Fedora IoT OSTree",
		SoftwareVersion: "41.20250101.0",
		Entity: One(Entity{
			EntityName: "Fedora Project",
			Role:       One(RoleTagCreator),
		}),
		Payload: &Payload{Directory: One(root)},
	}
}

func TestMarshalRoundtrip(t *testing.T) {
	for _, tagged := range []bool{false, true} {
		original := sampleTag()
		data, err := Marshal(original, EncodeOptions{Tagged: tagged})
		if err != nil {
			t.Fatalf("Marshal(tagged=%v): %v", tagged, err)
		}
		decoded, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("Unmarshal(tagged=%v): %v", tagged, err)
		}
		if !reflect.DeepEqual(decoded, original) {
			t.Errorf("roundtrip (tagged=%v) mismatch:\n got %+v\nwant %+v", tagged, decoded, original)
		}
	}
}

// deepTag returns sampleTag with its payload replaced by a chain of
// depth nested directories ending in one file.
func deepTag(depth int) *Tag {
	leaf := File{FSName: "leaf", Root: RootPath, Hash: SHA256Entry(sha256.Sum256([]byte("leaf")))}
	current := Directory{FSName: "d", Root: RootPath, PathElements: &PathElements{File: One(leaf)}}
	for range depth - 1 {
		current = Directory{FSName: "d", Root: RootPath, PathElements: &PathElements{Directory: One(current)}}
	}
	root := Directory{Root: RootPath, PathElements: &PathElements{Directory: One(current)}}
	tag := sampleTag()
	tag.Payload = &Payload{Directory: One(root)}
	return tag
}

func TestMarshalRoundtripDeepTree(t *testing.T) {
	original := deepTag(2000)
	data, err := Marshal(original, EncodeOptions{Tagged: true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Error("2000-level tree did not survive the roundtrip")
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(sampleTag(), EncodeOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(sampleTag(), EncodeOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two encodings of the same tag differ")
	}
}

func TestFalseFlagsAreEncoded(t *testing.T) {
	data, err := Marshal(sampleTag(), EncodeOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[uint64]codec.RawMessage
	if err := codec.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw: %v", err)
	}
	for key, want := range map[uint64]byte{8: 0xf5, 9: 0xf4, 11: 0xf4} {
		value, ok := raw[key]
		if !ok {
			t.Errorf("key %d missing", key)
			continue
		}
		if !bytes.Equal(value, []byte{want}) {
			t.Errorf("key %d = %x, want %x", key, []byte(value), want)
		}
	}
	// version-scheme (14) and lang (15) are unset and must not appear.
	for _, key := range []uint64{14, 15} {
		if _, ok := raw[key]; ok {
			t.Errorf("unset key %d present in encoding", key)
		}
	}
}

func TestEmptyDirectoryEncoding(t *testing.T) {
	directory := Directory{Root: RootPath, PathElements: &PathElements{}}
	data, err := codec.Marshal(directory)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// {24: "", 25: "/", 26: {}}
	want := []byte{0xa3, 0x18, 0x18, 0x60, 0x18, 0x19, 0x61, '/', 0x18, 0x1a, 0xa0}
	if !bytes.Equal(data, want) {
		t.Errorf("encoding = %x, want %x", data, want)
	}
}

func TestHashEntryEncoding(t *testing.T) {
	digest := sha256.Sum256([]byte("hi"))
	data, err := codec.Marshal(SHA256Entry(digest))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// [1, h'...'] with a 32-byte byte string (0x58 0x20).
	want := append([]byte{0x82, 0x01, 0x58, 0x20}, digest[:]...)
	if !bytes.Equal(data, want) {
		t.Errorf("encoding = %x, want %x", data, want)
	}
}

func TestMarshalValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tag)
		want   string
	}{
		{"empty tag id", func(tag *Tag) { tag.TagID = "" }, "tag-id"},
		{"empty software name", func(tag *Tag) { tag.SoftwareName = "" }, "software-name"},
		{"no entity", func(tag *Tag) { tag.Entity = nil }, "no entity"},
		{"entity without role", func(tag *Tag) {
			tag.Entity = One(Entity{EntityName: "x"})
		}, "no role"},
		{"short digest", func(tag *Tag) {
			tag.Payload = &Payload{File: One(File{FSName: "f", Hash: &HashEntry{Algorithm: SHA256, Value: []byte{1}}})}
		}, "digest"},
		{"unnamed subdirectory", func(tag *Tag) {
			tag.Payload = &Payload{Directory: One(Directory{
				PathElements: &PathElements{Directory: One(Directory{})},
			})}
		}, "empty fs-name"},
		{"present but empty", func(tag *Tag) {
			tag.Payload = &Payload{File: &OneOrMany[File]{}}
		}, "present but empty"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tag := sampleTag()
			test.mutate(tag)
			_, err := Marshal(tag, EncodeOptions{})
			if !errors.Is(err, ErrSerialization) {
				t.Fatalf("error = %v, want ErrSerialization", err)
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q does not mention %q", err, test.want)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncodeWriteFailure(t *testing.T) {
	err := Encode(failingWriter{}, sampleTag(), EncodeOptions{})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("error = %v, want ErrWrite", err)
	}
	if errors.Is(err, ErrSerialization) {
		t.Error("write failure reported as a serialization error")
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte{0xff}); !errors.Is(err, ErrSerialization) {
		t.Errorf("error = %v, want ErrSerialization", err)
	}
	if _, err := Unmarshal(nil); !errors.Is(err, ErrSerialization) {
		t.Errorf("error = %v, want ErrSerialization", err)
	}
}

func TestTagJSON(t *testing.T) {
	data, err := json.Marshal(sampleTag())
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`"tag-id":"org.fedoraproject.iot.x86_64.stable"`,
		`"role":"tag-creator"`,
		`"corpus":true`,
		`"patch":false`,
		`"alg":"sha-256"`,
		`"value":"8f434346648f6b96df89dda901c5176b10a6d83961dd3c1ac88b59b2dc327aa4"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("JSON missing %s:\n%s", want, text)
		}
	}
}

func TestSummarize(t *testing.T) {
	summary := sampleTag().Summarize()
	want := Summary{Directories: 3, Files: 3, Hashed: 3, MaxDepth: 1}
	if summary != want {
		t.Errorf("Summarize() = %+v, want %+v", summary, want)
	}
}

func TestParseRole(t *testing.T) {
	for role, name := range roleNames {
		parsed, err := ParseRole(name)
		if err != nil || parsed != role {
			t.Errorf("ParseRole(%q) = %v, %v", name, parsed, err)
		}
	}
	if role, err := ParseRole("42"); err != nil || role != 42 {
		t.Errorf("ParseRole(\"42\") = %v, %v", role, err)
	}
	if _, err := ParseRole("wizard"); err == nil {
		t.Error("ParseRole accepted an unknown name")
	}
}
