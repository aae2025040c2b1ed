package ddl

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// hashLen is the number of hex digits appended to shortened names.
const hashLen = 8

// Namer hands out constraint names that are deterministic, unique within a
// run (case-insensitively), and no longer than the dialect's identifier
// limit.
//
// Names are "<PREFIX>_<part>_<part>..." with characters outside
// [A-Za-z0-9_] replaced by '_'. A name over the limit keeps as much of the
// readable part as fits and ends in an 8-digit xxh3 digest of the full name:
//
//	FK_ORDER_LINE_ITEMS_CUSTOMER_ADDRESSES (limit 30) -> FK_ORDER_LINE_ITEMS_C_1a2b3c4d
//
// A repeated name gets "_2", "_3", ... before shortening.
type Namer struct {
	max  int
	used map[string]bool
}

// NewNamer returns a Namer bounded by maxLen characters (<= 0: unbounded).
func NewNamer(maxLen int) *Namer {
	return &Namer{max: maxLen, used: map[string]bool{}}
}

// Name returns the next unique name for prefix and parts.
func (n *Namer) Name(prefix string, parts ...string) string {
	base := sanitizeName(strings.Join(append([]string{prefix}, parts...), "_"))
	name := shorten(base, n.max)
	for i := 2; n.used[strings.ToUpper(name)]; i++ {
		name = shorten(fmt.Sprintf("%s_%d", base, i), n.max)
	}
	n.used[strings.ToUpper(name)] = true
	return name
}

func shorten(name string, maxLen int) string {
	if maxLen <= 0 || len(name) <= maxLen {
		return name
	}
	sum := fmt.Sprintf("%0*x", hashLen, uint32(xxh3.HashString(name)))
	keep := maxLen - hashLen - 1
	if keep < 1 {
		return sum[:maxLen]
	}
	head := strings.TrimRight(name[:keep], "_")
	return head + "_" + sum
}

// sanitizeName keeps ASCII letters, digits and '_' and collapses every other
// run of characters into a single '_'.
func sanitizeName(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	prevUnderscore := false
	for _, r := range s {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			r = '_'
		}
		if r == '_' && prevUnderscore {
			continue
		}
		prevUnderscore = r == '_'
		sb.WriteRune(r)
	}
	return strings.Trim(sb.String(), "_")
}
