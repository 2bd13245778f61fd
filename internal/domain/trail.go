// Package domain contains the core value types for trail certification.
// This package has no dependencies on storage or transport and is imported by
// every other internal package.
package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Trail identifies a long-distance trail program (mozgalom). The value is the
// code stored in the reference tables.
type Trail string

const (
	TrailOKT Trail = "OKT"
	TrailDDK Trail = "RPDDK"
	TrailAK  Trail = "AK"
)

// Trails lists every supported trail program in a stable order.
func Trails() []Trail {
	return []Trail{TrailOKT, TrailDDK, TrailAK}
}

var trailAliases = map[string]Trail{
	"OKT":   TrailOKT,
	"DDK":   TrailDDK,
	"RPDDK": TrailDDK,
	"AK":    TrailAK,
}

// ParseTrail maps a request or storage code to a Trail.
// "DDK" and "RPDDK" both name the same program.
func ParseTrail(s string) (Trail, error) {
	t, ok := trailAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTrail, s)
	}
	return t, nil
}

// ordinalPrefix is the checkpoint id prefix carrying this trail's ordinal.
func (t Trail) ordinalPrefix() string {
	if t == TrailDDK {
		return "DDKPH"
	}
	return string(t) + "PH"
}

var ordinalPattern = regexp.MustCompile(`(AKPH|DDKPH|OKTPH)_(\d+)`)

// CheckpointOrdinal extracts the position number a checkpoint id carries for
// the given trail. A checkpoint shared by several trails carries one ordinal
// per trail, e.g. "OKTPH_12_DDKPH_03".
func CheckpointOrdinal(id string, t Trail) (int, bool) {
	want := t.ordinalPrefix()
	for _, m := range ordinalPattern.FindAllStringSubmatch(id, -1) {
		if m[1] != want {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// CompareCheckpointIDs orders checkpoint ids along trail t: by ordinal first
// (ids without an ordinal sort last), then lexically.
func CompareCheckpointIDs(a, b string, t Trail) int {
	na, oka := CheckpointOrdinal(a, t)
	nb, okb := CheckpointOrdinal(b, t)
	switch {
	case oka && !okb:
		return -1
	case !oka && okb:
		return 1
	case oka && okb && na != nb:
		if na < nb {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
