// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treewalk

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/swidtree/lib/contenthash"
	"github.com/bureau-foundation/swidtree/lib/coswid"
	"github.com/bureau-foundation/swidtree/lib/snapshot"
	"github.com/bureau-foundation/swidtree/lib/snapshot/snapshottest"
	"github.com/bureau-foundation/swidtree/lib/testutil"
)

func walkRef(t *testing.T, root *snapshottest.Node, options Options) (*Result, *snapshottest.Store) {
	t.Helper()
	store := snapshottest.New()
	store.SetRef("main", root)
	result, err := Walk(context.Background(), store, root, options)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return result, store
}

func names[T any](values []T, name func(T) string) []string {
	var out []string
	for _, value := range values {
		out = append(out, name(value))
	}
	return out
}

func fileNames(d *coswid.Directory) []string {
	return names(d.Files(), func(f coswid.File) string { return f.FSName })
}

func directoryNames(d *coswid.Directory) []string {
	return names(d.Directories(), func(d coswid.Directory) string { return d.FSName })
}

func TestWalkSingleFile(t *testing.T) {
	result, _ := walkRef(t, snapshottest.Dir("", snapshottest.File("hello.txt", "hi")), Options{})

	root := result.Root
	if root.FSName != "" || root.Root != "/" {
		t.Errorf("root fs-name, root = %q, %q", root.FSName, root.Root)
	}
	if root.PathElements.Directory != nil {
		t.Error("directory slot present for a root with no subdirectories")
	}
	file, ok := root.PathElements.File.Single()
	if !ok {
		t.Fatalf("file slot cardinality = %v, want single", root.PathElements.File.Cardinality())
	}
	want := sha256.Sum256([]byte("hi"))
	if file.FSName != "hello.txt" || file.Root != "/" {
		t.Errorf("file = %+v", file)
	}
	if file.Hash.Algorithm != coswid.SHA256 || string(file.Hash.Value) != string(want[:]) {
		t.Errorf("hash = %v %x, want sha-256 %x", file.Hash.Algorithm, file.Hash.Value, want)
	}
	if file.Size != nil || file.FileVersion != "" {
		t.Error("size or file-version set")
	}
}

func TestWalkTwoEmptySubdirectories(t *testing.T) {
	result, _ := walkRef(t, snapshottest.Dir("",
		snapshottest.Dir("b"),
		snapshottest.Dir("a"),
	), Options{})

	root := result.Root
	if root.PathElements.File != nil {
		t.Error("file slot present for a root with no files")
	}
	if got := root.PathElements.Directory.Cardinality(); got != coswid.Multiple {
		t.Fatalf("directory cardinality = %v, want multiple", got)
	}
	// Store order, not sorted.
	if got := directoryNames(root); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("directories = %v, want [b a]", got)
	}
	for _, child := range root.Directories() {
		if child.PathElements.File != nil || child.PathElements.Directory != nil {
			t.Errorf("empty directory %q has children", child.FSName)
		}
	}
}

func TestWalkCardinalityLaw(t *testing.T) {
	for files := 0; files <= 3; files++ {
		for directories := 0; directories <= 3; directories++ {
			t.Run(fmt.Sprintf("files=%d,dirs=%d", files, directories), func(t *testing.T) {
				var children []*snapshottest.Node
				for i := range files {
					children = append(children, snapshottest.File(fmt.Sprintf("f%d", i), fmt.Sprint(i)))
				}
				for i := range directories {
					children = append(children, snapshottest.Dir(fmt.Sprintf("d%d", i)))
				}
				result, _ := walkRef(t, snapshottest.Dir("", children...), Options{})

				elements := result.Root.PathElements
				if got, want := elements.File.Cardinality(), coswid.CardinalityOf(files); got != want {
					t.Errorf("file cardinality = %v, want %v", got, want)
				}
				if got, want := elements.Directory.Cardinality(), coswid.CardinalityOf(directories); got != want {
					t.Errorf("directory cardinality = %v, want %v", got, want)
				}
				if elements.File.Len() != files || elements.Directory.Len() != directories {
					t.Errorf("lengths = %d, %d", elements.File.Len(), elements.Directory.Len())
				}
			})
		}
	}
}

func TestWalkSkipsSymlinksAndSpecialFiles(t *testing.T) {
	result, _ := walkRef(t, snapshottest.Dir("",
		snapshottest.Dir("only-links",
			snapshottest.Symlink("l1", "/etc/passwd"),
			snapshottest.Other("fifo"),
		),
		snapshottest.Symlink("top-link", "only-links"),
		snapshottest.File("real", "content"),
	), Options{})

	if got := fileNames(result.Root); !slices.Equal(got, []string{"real"}) {
		t.Errorf("root files = %v, want [real]", got)
	}
	child, ok := result.Root.PathElements.Directory.Single()
	if !ok {
		t.Fatal("expected a single subdirectory")
	}
	if child.PathElements.File != nil || child.PathElements.Directory != nil {
		t.Error("directory of only symlinks and special files has children")
	}
	if result.Stats.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", result.Stats.Skipped)
	}
}

func TestWalkHashIndependentOfPosition(t *testing.T) {
	result, _ := walkRef(t, snapshottest.Dir("",
		snapshottest.File("a", "same"),
		snapshottest.Dir("x", snapshottest.Dir("y", snapshottest.File("b", "same"))),
	), Options{})

	top := result.Root.Files()[0]
	nested := result.Root.Directories()[0].Directories()[0].Files()[0]
	want := sha256.Sum256([]byte("same"))
	for _, file := range []coswid.File{top, nested} {
		if string(file.Hash.Value) != string(want[:]) {
			t.Errorf("%s hash = %x, want %x", file.FSName, file.Hash.Value, want)
		}
	}
}

func TestWalkStats(t *testing.T) {
	result, store := walkRef(t, snapshottest.Dir("",
		snapshottest.File("a", "12345"),
		snapshottest.Dir("d", snapshottest.File("b", "123")),
		snapshottest.Other("dev"),
	), Options{})

	want := Stats{Directories: 2, Files: 2, Skipped: 1, Bytes: 8}
	if result.Stats != want {
		t.Errorf("Stats = %+v, want %+v", result.Stats, want)
	}
	opened, closed := store.Streams()
	if opened != 2 || closed != 2 {
		t.Errorf("streams opened, closed = %d, %d, want 2, 2", opened, closed)
	}
}

func TestWalkOrderName(t *testing.T) {
	result, _ := walkRef(t, snapshottest.Dir("",
		snapshottest.File("zeta", "z"),
		snapshottest.Dir("beta"),
		snapshottest.File("alpha", "a"),
		snapshottest.Dir("Alpha"),
	), Options{Order: OrderName})

	if got := fileNames(result.Root); !slices.Equal(got, []string{"alpha", "zeta"}) {
		t.Errorf("files = %v", got)
	}
	if got := directoryNames(result.Root); !slices.Equal(got, []string{"Alpha", "beta"}) {
		t.Errorf("directories = %v", got)
	}
}

func TestWalkConcurrentMatchesSequential(t *testing.T) {
	var children []*snapshottest.Node
	for i := range 40 {
		children = append(children, snapshottest.File(fmt.Sprintf("file-%02d", 39-i), strings.Repeat("x", i)))
		if i%10 == 0 {
			children = append(children, snapshottest.Dir(fmt.Sprintf("dir-%d", i),
				snapshottest.File("inner", fmt.Sprint(i))))
		}
	}
	tree := func() *snapshottest.Node { return snapshottest.Dir("", children...) }

	sequential, _ := walkRef(t, tree(), Options{})
	concurrent, store := walkRef(t, tree(), Options{Concurrency: 8})

	first, err := coswid.Marshal(&coswid.Tag{
		TagID: "t", SoftwareName: "s",
		Entity:  coswid.One(coswid.Entity{EntityName: "e", Role: coswid.One(coswid.RoleTagCreator)}),
		Payload: &coswid.Payload{Directory: coswid.One(*sequential.Root)},
	}, coswid.EncodeOptions{})
	if err != nil {
		t.Fatalf("Marshal sequential: %v", err)
	}
	second, err := coswid.Marshal(&coswid.Tag{
		TagID: "t", SoftwareName: "s",
		Entity:  coswid.One(coswid.Entity{EntityName: "e", Role: coswid.One(coswid.RoleTagCreator)}),
		Payload: &coswid.Payload{Directory: coswid.One(*concurrent.Root)},
	}, coswid.EncodeOptions{})
	if err != nil {
		t.Fatalf("Marshal concurrent: %v", err)
	}
	if string(first) != string(second) {
		t.Error("concurrent walk encodes differently from sequential walk")
	}
	if sequential.Stats != concurrent.Stats {
		t.Errorf("stats differ: %+v vs %+v", sequential.Stats, concurrent.Stats)
	}
	opened, closed := store.Streams()
	if opened != closed {
		t.Errorf("streams opened %d, closed %d", opened, closed)
	}
}

func TestWalkSharedStore(t *testing.T) {
	root := snapshottest.Dir("",
		snapshottest.Dir("etc", snapshottest.File("hostname", "iot\n"), snapshottest.File("os-release", "NAME=Fedora\n")),
		snapshottest.Dir("usr", snapshottest.Dir("bin", snapshottest.File("true", ""))),
	)
	store := snapshottest.New()
	store.SetRef("main", root)

	const walks = 6
	results := make(chan *Result, walks)
	for range walks {
		go func() {
			result, err := Walk(context.Background(), store, root, Options{Concurrency: 2})
			if err != nil {
				t.Errorf("Walk: %v", err)
			}
			results <- result
		}()
	}

	want := Stats{Directories: 4, Files: 3, Bytes: 16}
	for i := range walks {
		result := testutil.RequireReceive(t, results, 10*time.Second, "walk %d", i)
		if result == nil {
			continue
		}
		if result.Stats != want {
			t.Errorf("walk %d stats = %+v, want %+v", i, result.Stats, want)
		}
	}
	if opened, closed := store.Streams(); opened != closed || opened != walks*3 {
		t.Errorf("streams opened %d, closed %d, want %d each", opened, closed, walks*3)
	}
}

func TestWalkErrors(t *testing.T) {
	readFailure := errors.New("bad sector")
	tests := []struct {
		name     string
		tree     func() *snapshottest.Node
		kind     error
		wantPath string
	}{
		{
			name: "enumerate failure",
			tree: func() *snapshottest.Node {
				broken := snapshottest.Dir("broken")
				broken.EnumerateErr = fs.ErrPermission
				return snapshottest.Dir("", snapshottest.Dir("usr", broken))
			},
			kind:     snapshot.ErrIO,
			wantPath: "/usr/broken",
		},
		{
			name: "missing checksum",
			tree: func() *snapshottest.Node {
				file := snapshottest.File("passwd", "root:x:0:0")
				file.MissingChecksum = true
				return snapshottest.Dir("", snapshottest.Dir("etc", file))
			},
			kind:     snapshot.ErrMissingChecksum,
			wantPath: "/etc/passwd",
		},
		{
			name: "read failure",
			tree: func() *snapshottest.Node {
				file := snapshottest.File("blob", "partial")
				file.ReadErr = readFailure
				return snapshottest.Dir("", file)
			},
			kind:     contenthash.ErrRead,
			wantPath: "/blob",
		},
	}
	for _, test := range tests {
		for _, concurrency := range []int{1, 4} {
			t.Run(fmt.Sprintf("%s/concurrency=%d", test.name, concurrency), func(t *testing.T) {
				store := snapshottest.New()
				root := test.tree()
				store.SetRef("main", root)

				result, err := Walk(context.Background(), store, root, Options{Concurrency: concurrency})
				if err == nil {
					t.Fatal("Walk succeeded")
				}
				if result != nil {
					t.Error("Walk returned a partial result")
				}
				if !errors.Is(err, test.kind) {
					t.Errorf("error = %v, want kind %v", err, test.kind)
				}
				if !strings.Contains(err.Error(), test.wantPath) {
					t.Errorf("error %q does not name %s", err, test.wantPath)
				}
				opened, closed := store.Streams()
				if opened != closed {
					t.Errorf("streams opened %d, closed %d", opened, closed)
				}
			})
		}
	}
}

func TestWalkCancelledInNestedDirectory(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			root := snapshottest.Dir("",
				snapshottest.File("before", "x"),
				snapshottest.Dir("a", snapshottest.Dir("b", snapshottest.File("deep", "y"))),
				snapshottest.File("after", "z"),
			)
			store := snapshottest.New()
			store.SetRef("main", root)
			store.BeforeEnumerate = func(dirPath string) {
				if dirPath == "/a/b" {
					cancel()
				}
			}

			result, err := Walk(ctx, store, root, Options{Concurrency: concurrency})
			if result != nil {
				t.Error("cancelled walk returned a result")
			}
			if !errors.Is(err, snapshot.ErrCancelled) {
				t.Fatalf("error = %v, want ErrCancelled", err)
			}
			if !errors.Is(err, context.Canceled) {
				t.Errorf("error = %v, want context.Canceled", err)
			}
			if errors.Is(err, snapshot.ErrIO) {
				t.Error("cancellation reported as an I/O error")
			}
		})
	}
}

func TestWalkAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := snapshottest.New()
	root := snapshottest.Dir("", snapshottest.File("f", "x"))
	store.SetRef("main", root)
	if _, err := Walk(ctx, store, root, Options{}); !errors.Is(err, snapshot.ErrCancelled) {
		t.Errorf("error = %v, want ErrCancelled", err)
	}
}

func TestParseOrder(t *testing.T) {
	for input, want := range map[string]Order{"": OrderStore, "store": OrderStore, "name": OrderName} {
		got, err := ParseOrder(input)
		if err != nil || got != want {
			t.Errorf("ParseOrder(%q) = %v, %v, want %v", input, got, err, want)
		}
	}
	if _, err := ParseOrder("random"); err == nil {
		t.Error("ParseOrder accepted an unknown order")
	}
}
