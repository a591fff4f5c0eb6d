package grid

import (
	"fmt"
	"sort"
	"strings"
)

// Description describes how the points of a uniform grid are laid out along the
// three axes, i.e., the orientation of a block.  All blocks in one AMR hierarchy
// must share a Description.
type Description int8

const (
	// Unset means no block has fixed the description yet.
	Unset Description = iota - 1
	SinglePoint
	XLine
	YLine
	ZLine
	XYPlane
	YZPlane
	XZPlane
	XYZGrid
	Empty
)

// DescriptionFromDims returns the Description of a grid with the given number of
// points along each axis.
func DescriptionFromDims(dims [3]int) Description {
	var extended [3]bool
	var numExtended int
	for axis, n := range dims {
		if n < 1 {
			return Empty
		}
		if n > 1 {
			extended[axis] = true
			numExtended++
		}
	}
	switch numExtended {
	case 0:
		return SinglePoint
	case 1:
		switch {
		case extended[0]:
			return XLine
		case extended[1]:
			return YLine
		default:
			return ZLine
		}
	case 2:
		switch {
		case !extended[2]:
			return XYPlane
		case !extended[0]:
			return YZPlane
		default:
			return XZPlane
		}
	default:
		return XYZGrid
	}
}

// Dimensionality returns the number of axes along which the grid extends.
func (d Description) Dimensionality() int {
	switch d {
	case SinglePoint:
		return 0
	case XLine, YLine, ZLine:
		return 1
	case XYPlane, YZPlane, XZPlane:
		return 2
	case XYZGrid:
		return 3
	default:
		return -1
	}
}

func (d Description) String() string {
	switch d {
	case Unset:
		return "unset"
	case SinglePoint:
		return "single point"
	case XLine:
		return "X line"
	case YLine:
		return "Y line"
	case ZLine:
		return "Z line"
	case XYPlane:
		return "XY plane"
	case YZPlane:
		return "YZ plane"
	case XZPlane:
		return "XZ plane"
	case XYZGrid:
		return "3d volume"
	case Empty:
		return "empty"
	default:
		return fmt.Sprintf("unknown description (%d)", int8(d))
	}
}

// DescriptionString is a string specifying a grid description, e.g., "xy" or "vol".
type DescriptionString string

var descriptionStrings = map[string]Description{
	"":      Unset,
	"unset": Unset,
	"point": SinglePoint,
	"x":     XLine,
	"y":     YLine,
	"z":     ZLine,
	"xy":    XYPlane,
	"yz":    YZPlane,
	"xz":    XZPlane,
	"xyz":   XYZGrid,
	"vol":   XYZGrid,
	"0_1":   XYPlane,
	"1_2":   YZPlane,
	"0_2":   XZPlane,
	"0_1_2": XYZGrid,
	"empty": Empty,
}

// ListDescriptions returns the sorted names accepted by DescriptionString.
func ListDescriptions() []string {
	names := make([]string, 0, len(descriptionStrings))
	for name := range descriptionStrings {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Description returns the Description associated with the string.
func (s DescriptionString) Description() (Description, error) {
	d, found := descriptionStrings[strings.ToLower(strings.TrimSpace(string(s)))]
	if !found {
		return Unset, fmt.Errorf("unknown grid description %q, expected one of %s",
			string(s), strings.Join(ListDescriptions(), ", "))
	}
	return d, nil
}
