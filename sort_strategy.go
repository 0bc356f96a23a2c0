package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// Sort method constants
const (
	SortNatural    = 0 // Natural sort order (e.g., file1, file2, file10)
	SortSimple     = 1 // Simple string sort (lexicographical)
	SortEntryOrder = 2 // Maintain original order (no sort)
)

// SortStrategy orders a media list.
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(media []MediaPath) []MediaPath
	// Name returns the human-readable name of the strategy
	Name() string
	// Flag returns the command line spelling of the strategy
	Flag() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// NaturalSortStrategy orders digit runs numerically using maruel/natural.
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(media []MediaPath) []MediaPath {
	result := slices.Clone(media)
	slices.SortStableFunc(result, func(a, b MediaPath) int {
		switch {
		case natural.Less(a.Path, b.Path):
			return -1
		case natural.Less(b.Path, a.Path):
			return 1
		default:
			return 0
		}
	})
	return nonNil(result)
}

func (s *NaturalSortStrategy) Name() string { return "Natural" }
func (s *NaturalSortStrategy) Flag() string { return "natural" }
func (s *NaturalSortStrategy) ID() int      { return SortNatural }

// SimpleSortStrategy orders paths bytewise.
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(media []MediaPath) []MediaPath {
	result := slices.Clone(media)
	slices.SortStableFunc(result, func(a, b MediaPath) int {
		return strings.Compare(a.Path, b.Path)
	})
	return nonNil(result)
}

func (s *SimpleSortStrategy) Name() string { return "Simple" }
func (s *SimpleSortStrategy) Flag() string { return "simple" }
func (s *SimpleSortStrategy) ID() int      { return SortSimple }

// EntryOrderSortStrategy keeps directory and archive order.
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(media []MediaPath) []MediaPath {
	return nonNil(slices.Clone(media))
}

func (s *EntryOrderSortStrategy) Name() string { return "Entry Order" }
func (s *EntryOrderSortStrategy) Flag() string { return "entry" }
func (s *EntryOrderSortStrategy) ID() int      { return SortEntryOrder }

func nonNil(media []MediaPath) []MediaPath {
	if media == nil {
		return []MediaPath{}
	}
	return media
}

// GetSortStrategy returns the appropriate strategy based on the sort method ID
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortSimple:
		return &SimpleSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &NaturalSortStrategy{}
	}
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&NaturalSortStrategy{},
		&SimpleSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}

// parseSortMethod maps a -sort flag value to a sort method ID.
func parseSortMethod(name string) (int, error) {
	for _, s := range GetAllSortStrategies() {
		if strings.EqualFold(name, s.Flag()) {
			return s.ID(), nil
		}
	}
	return SortNatural, fmt.Errorf("unknown sort method %q", name)
}

// getSortMethodName returns the human-readable name of a sort method
func getSortMethodName(sortMethod int) string {
	return GetSortStrategy(sortMethod).Name()
}

// sortMediaPaths returns media ordered by the given sort method.
func sortMediaPaths(media []MediaPath, sortMethod int) []MediaPath {
	return GetSortStrategy(sortMethod).Sort(media)
}
