package metadata

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/schema"
)

// Role is the semantic meaning of a metadata column.
type Role string

const (
	RoleTable         Role = "table"
	RoleColumn        Role = "column"
	RoleType          Role = "type"
	RolePrimaryKey    Role = "primary_key"
	RoleLastOperation Role = "last_operation"
	RoleSyncTimestamp Role = "sync_timestamp"
	RoleRefTable      Role = "ref_table"
	RoleRefColumn     Role = "ref_column"
)

// roleOrder is the resolution order; a header claimed by an earlier role is
// not offered to later ones.
var roleOrder = []Role{
	RoleTable, RoleColumn, RoleType, RolePrimaryKey,
	RoleLastOperation, RoleSyncTimestamp, RoleRefTable, RoleRefColumn,
}

// Roles lists every role in resolution order.
func Roles() []Role { return append([]Role(nil), roleOrder...) }

// requiredRoles must resolve or loading fails.
var requiredRoles = map[Role]string{
	RoleTable:  "Table Name",
	RoleColumn: "Attribute Name",
}

type matcher func(h string) bool

func exact(want string) matcher { return func(h string) bool { return h == want } }

func prefix(p string) matcher { return func(h string) bool { return strings.HasPrefix(h, p) } }

func containsAll(parts ...string) matcher {
	return func(h string) bool {
		for _, p := range parts {
			if !strings.Contains(h, p) {
				return false
			}
		}
		return true
	}
}

func containsAny(parts ...string) matcher {
	return func(h string) bool {
		for _, p := range parts {
			if strings.Contains(h, p) {
				return true
			}
		}
		return false
	}
}

// tiers lists, per role, matchers in priority order over normalized headers.
// The first tier with any match decides; more than one match in that tier
// is ambiguous.
var tiers = map[Role][]matcher{
	RoleTable:         {exact("table name")},
	RoleColumn:        {exact("attribute name"), exact("column name")},
	RoleType:          {prefix("data type")},
	RolePrimaryKey:    {containsAll("primary key")},
	RoleLastOperation: {containsAny("lastoperation", "last operation")},
	RoleSyncTimestamp: {containsAny("synctimestamp", "sync timestamp")},
	RoleRefTable:      {containsAll("reference", "table"), exact("table")},
	RoleRefColumn: {
		func(h string) bool {
			return strings.Contains(h, "reference") && (strings.Contains(h, "attribute") || strings.Contains(h, "column"))
		},
		exact("attribute"),
	},
}

// columnMap holds the resolved index of every role; -1 means absent.
type columnMap map[Role]int

func (m columnMap) index(r Role) int {
	if i, ok := m[r]; ok {
		return i
	}
	return -1
}

// resolveColumns maps header cells to roles once, before any row is read.
func resolveColumns(headers []string, opts Options) (columnMap, error) {
	normed := make([]string, len(headers))
	for i, h := range headers {
		normed[i] = normalizeHeader(h)
	}

	m := columnMap{}
	used := map[int]bool{}

	// Explicit aliases win.
	aliasRoles := make([]string, 0, len(opts.HeaderAliases))
	for r := range opts.HeaderAliases {
		aliasRoles = append(aliasRoles, r)
	}
	sort.Strings(aliasRoles)
	for _, r := range aliasRoles {
		role := Role(r)
		if _, ok := tiers[role]; !ok {
			return nil, schema.Errorf(schema.KindSchemaShape, "metadata.header", "unknown header alias role %q", r)
		}
		want := normalizeHeader(opts.HeaderAliases[r])
		idx := matchAll(normed, used, exact(want))
		switch len(idx) {
		case 0:
			return nil, schema.Errorf(schema.KindSchemaShape, "metadata.header",
				"header %q configured for %s not found", opts.HeaderAliases[r], role)
		case 1:
			m[role] = idx[0]
			used[idx[0]] = true
		default:
			return nil, ambiguous(role, headers, idx)
		}
	}

	for _, role := range roleOrder {
		if _, ok := m[role]; ok {
			continue
		}
		for _, match := range tiers[role] {
			idx := matchAll(normed, used, match)
			if len(idx) > 1 {
				return nil, ambiguous(role, headers, idx)
			}
			if len(idx) == 1 {
				m[role] = idx[0]
				used[idx[0]] = true
				break
			}
		}
	}

	// Fixed-position fallbacks for reference columns.
	for _, f := range []struct {
		role Role
		pos  int
	}{{RoleRefTable, opts.RefTablePos}, {RoleRefColumn, opts.RefColumnPos}} {
		i := f.pos - 1
		if _, ok := m[f.role]; ok || i < 0 || i >= len(headers) || used[i] {
			continue
		}
		m[f.role] = i
		used[i] = true
	}

	var missing []string
	for _, role := range roleOrder {
		if name, ok := requiredRoles[role]; ok && m.index(role) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, schema.Errorf(schema.KindSchemaShape, "metadata.header",
			"metadata table is missing required column(s): %s", strings.Join(missing, ", "))
	}
	return m, nil
}

func matchAll(normed []string, used map[int]bool, match matcher) []int {
	var out []int
	for i, h := range normed {
		if h == "" || used[i] {
			continue
		}
		if match(h) {
			out = append(out, i)
		}
	}
	return out
}

func ambiguous(role Role, headers []string, idx []int) error {
	names := make([]string, len(idx))
	for i, j := range idx {
		names[i] = fmt.Sprintf("%q", strings.TrimSpace(headers[j]))
	}
	return schema.Errorf(schema.KindSchemaShape, "metadata.header",
		"ambiguous headers for %s: %s", role, strings.Join(names, ", "))
}

var folder = cases.Fold()

// normalizeHeader folds a header cell for matching: accents stripped, case
// folded, and every run of non-alphanumeric characters collapsed to one
// space.
//
//	"Is it the Primary Key or part of the Primary Key?" -> "is it the primary key or part of the primary key"
//	"  Data Type and Length "                          -> "data type and length"
//	"Référence_Table"                                  -> "reference table"
func normalizeHeader(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}
	ascii = folder.String(ascii)

	var sb strings.Builder
	space := false
	for _, r := range ascii {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			space = false
			sb.WriteRune(r)
			continue
		}
		space = true
	}
	return sb.String()
}
