package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/Prince5598/Cloud-Storage/view"
)

func TestTreeResolverDescendantsDiscoveryOrder(t *testing.T) {
	files := newFakeFileRepo(
		folderNode("a", "u", nil, "A"),
		folderNode("b", "u", strPtr("a"), "B"),
		fileNode("x", "u", strPtr("a"), "x.pdf"),
		folderNode("c", "u", strPtr("b"), "C"),
		fileNode("y", "u", strPtr("c"), "y.pdf"),
		fileNode("foreign", "v", strPtr("a"), "z.pdf"),
	)
	resolver := NewTreeResolver(files)

	got, err := resolver.Descendants(context.Background(), nil, "u", "a")
	if err != nil {
		t.Fatalf("descendants failed: %v", err)
	}
	var ids []string
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	if !reflect.DeepEqual(ids, []string{"b", "x", "c", "y"}) {
		t.Fatalf("unexpected descendants %v", ids)
	}

	index := map[string]int{"a": -1}
	for i, n := range got {
		index[n.ID] = i
	}
	for _, n := range got {
		if index[*n.ParentID] >= index[n.ID] {
			t.Fatalf("%s discovered before its parent", n.ID)
		}
	}
}

func TestTreeResolverDescendantsTerminatesOnCycle(t *testing.T) {
	files := newFakeFileRepo(
		folderNode("a", "u", strPtr("b"), "A"),
		folderNode("b", "u", strPtr("a"), "B"),
		folderNode("self", "u", strPtr("self"), "Self"),
	)
	resolver := NewTreeResolver(files)

	got, err := resolver.Descendants(context.Background(), nil, "u", "a")
	if err != nil {
		t.Fatalf("descendants failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only b, got %+v", got)
	}

	got, err = resolver.Descendants(context.Background(), nil, "u", "self")
	if err != nil || len(got) != 0 {
		t.Fatalf("self reference should yield nothing, got %+v err=%v", got, err)
	}
}

func TestTreeResolverBreadcrumbs(t *testing.T) {
	files := newFakeFileRepo(
		folderNode("a", "u", nil, "A"),
		folderNode("b", "u", strPtr("a"), "B"),
		folderNode("c", "u", strPtr("b"), "C"),
		fileNode("f", "u", strPtr("c"), "f.pdf"),
		folderNode("orphan", "u", strPtr("gone"), "Orphan"),
	)
	resolver := NewTreeResolver(files)
	ctx := context.Background()

	got, err := resolver.Breadcrumbs(ctx, nil, "u", "c")
	if err != nil {
		t.Fatalf("breadcrumbs failed: %v", err)
	}
	want := []view.Crumb{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got, _ := resolver.Breadcrumbs(ctx, nil, "u", "f"); len(got) != 0 {
		t.Fatalf("a file has no breadcrumbs, got %v", got)
	}
	if got, _ := resolver.Breadcrumbs(ctx, nil, "u", "orphan"); len(got) != 1 {
		t.Fatalf("walk should stop at missing parent, got %v", got)
	}
	if got, _ := resolver.Breadcrumbs(ctx, nil, "other", "c"); len(got) != 0 {
		t.Fatalf("foreign owner must see nothing, got %v", got)
	}
}

func TestTreeResolverIsAncestor(t *testing.T) {
	files := newFakeFileRepo(
		folderNode("a", "u", nil, "A"),
		folderNode("b", "u", strPtr("a"), "B"),
		folderNode("c", "u", strPtr("b"), "C"),
		folderNode("loop1", "u", strPtr("loop2"), "L1"),
		folderNode("loop2", "u", strPtr("loop1"), "L2"),
	)
	resolver := NewTreeResolver(files)
	ctx := context.Background()

	cases := []struct {
		ancestor, node string
		want           bool
	}{
		{"a", "c", true},
		{"b", "b", true},
		{"c", "a", false},
		{"a", "loop1", false},
	}
	for _, tc := range cases {
		got, err := resolver.IsAncestor(ctx, nil, "u", tc.ancestor, tc.node)
		if err != nil {
			t.Fatalf("IsAncestor(%s, %s) error: %v", tc.ancestor, tc.node, err)
		}
		if got != tc.want {
			t.Fatalf("IsAncestor(%s, %s) = %v, want %v", tc.ancestor, tc.node, got, tc.want)
		}
	}
}
