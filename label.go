package jmhbench

import (
	"fmt"
)

// DefaultLabelPrefixLength is the length of "org.bverify.throughput.", the package
// prefix every b_verify benchmark name starts with.
const DefaultLabelPrefixLength = 23

// ShortNamePolicy decides the label of a name that is not longer than the prefix.
type ShortNamePolicy string

const (
	// ShortNameEmpty yields an empty label, the historical behavior of the report script.
	ShortNameEmpty ShortNamePolicy = "empty"
	// ShortNameWhole keeps the whole name as its label.
	ShortNameWhole ShortNamePolicy = "whole"
)

func (p ShortNamePolicy) valid() error {
	switch p {
	case ShortNameEmpty, ShortNameWhole:
		return nil
	}
	return fmt.Errorf("unknown short name policy %q", string(p))
}

// Labeler derives display labels from benchmark names.
type Labeler struct {
	PrefixLength int
	Policy       ShortNamePolicy
}

// Label removes the first PrefixLength characters of name. The second result reports
// whether name was too short for the prefix, in which case Policy applies.
func (l Labeler) Label(name string) (string, bool) {
	runes := []rune(name)
	if len(runes) > l.PrefixLength {
		return string(runes[l.PrefixLength:]), false
	}
	if l.Policy == ShortNameWhole {
		return name, true
	}
	return "", true
}
