package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultPalette is the fixed, ordered set of zone fill colors.
// Reordering it changes every zone's color; append only.
var DefaultPalette = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// ZoneColorAssigner maps a zone key to a palette color.
//
// The mapping is a pure function of the key and the palette: the same key
// yields the same color in every process and every session. Two zones may
// share a color once there are more zones than palette entries.
type ZoneColorAssigner struct {
	palette []string
}

func NewZoneColorAssigner(palette []string) (*ZoneColorAssigner, error) {
	if len(palette) == 0 {
		return nil, errors.New("zone color assigner: palette must not be empty")
	}

	p := make([]string, len(palette))
	copy(p, palette)
	return &ZoneColorAssigner{palette: p}, nil
}

// ColorFor returns the palette entry at Digest(zoneKey) mod len(palette).
func (z *ZoneColorAssigner) ColorFor(zoneKey string) string {
	return z.palette[Digest(zoneKey)%uint64(len(z.palette))]
}

// Size returns the number of palette entries.
func (z *ZoneColorAssigner) Size() int { return len(z.palette) }

// Digest is the stable numeric digest behind ColorFor.
//
// Keys made only of ASCII digits (postal codes) that fit in a uint64 digest
// to their numeric value, so neighbouring postal codes get neighbouring
// palette slots. Any other key digests to XXH64 (seed 0) of its UTF-8 bytes.
// Surrounding whitespace is ignored.
func Digest(zoneKey string) uint64 {
	k := strings.TrimSpace(zoneKey)
	if isASCIIDigits(k) {
		if n, err := strconv.ParseUint(k, 10, 64); err == nil {
			return n
		}
	}
	return xxhash.Sum64String(k)
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
