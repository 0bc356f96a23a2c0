package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sortInput() []MediaPath {
	return []MediaPath{
		{Path: "a/clip10.gif"},
		{Path: "a/clip2.gif"},
		archiveEntry("a/set.zip", "frame1.webp"),
		{Path: "a/clip1.webp"},
	}
}

func pathsOf(media []MediaPath) []string {
	out := make([]string, len(media))
	for i, m := range media {
		out[i] = m.Path
	}
	return out
}

func TestSortStrategies(t *testing.T) {
	tests := []struct {
		strategy SortStrategy
		name     string
		flag     string
		id       int
		want     []string
	}{
		{
			&NaturalSortStrategy{}, "Natural", "natural", SortNatural,
			[]string{"a/clip1.webp", "a/clip2.gif", "a/clip10.gif", "a/set.zip:frame1.webp"},
		},
		{
			&SimpleSortStrategy{}, "Simple", "simple", SortSimple,
			[]string{"a/clip1.webp", "a/clip10.gif", "a/clip2.gif", "a/set.zip:frame1.webp"},
		},
		{
			&EntryOrderSortStrategy{}, "Entry Order", "entry", SortEntryOrder,
			[]string{"a/clip10.gif", "a/clip2.gif", "a/set.zip:frame1.webp", "a/clip1.webp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.strategy.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
			if got := tt.strategy.Flag(); got != tt.flag {
				t.Errorf("Flag() = %q, want %q", got, tt.flag)
			}
			if got := tt.strategy.ID(); got != tt.id {
				t.Errorf("ID() = %d, want %d", got, tt.id)
			}

			input := sortInput()
			got := tt.strategy.Sort(input)
			if diff := cmp.Diff(tt.want, pathsOf(got)); diff != "" {
				t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(sortInput(), input); diff != "" {
				t.Errorf("input was modified (-want +got):\n%s", diff)
			}
			if got := tt.strategy.Sort(nil); got == nil || len(got) != 0 {
				t.Errorf("Sort(nil) = %#v, want empty slice", got)
			}
		})
	}
}

func TestSortKeepsArchiveFields(t *testing.T) {
	got := sortMediaPaths([]MediaPath{archiveEntry("b.7z", "x.gif"), {Path: "a.gif"}}, SortNatural)
	want := []MediaPath{
		{Path: "a.gif"},
		{Path: "b.7z:x.gif", ArchivePath: "b.7z", EntryPath: "x.gif"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sortMediaPaths mismatch (-want +got):\n%s", diff)
	}
}

func TestGetSortStrategyFallback(t *testing.T) {
	if got := GetSortStrategy(999).ID(); got != SortNatural {
		t.Errorf("GetSortStrategy(999).ID() = %d, want %d", got, SortNatural)
	}
	if got := getSortMethodName(SortEntryOrder); got != "Entry Order" {
		t.Errorf("getSortMethodName = %q", got)
	}
}

func TestParseSortMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"natural", SortNatural, false},
		{"Simple", SortSimple, false},
		{"entry", SortEntryOrder, false},
		{"random", SortNatural, true},
		{"", SortNatural, true},
	}
	for _, tt := range tests {
		got, err := parseSortMethod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSortMethod(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseSortMethod(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
