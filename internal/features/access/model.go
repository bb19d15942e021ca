package access

import (
	"regexp"
	"strings"

	"omnisuite/internal/features/page"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// AccessPattern is a compiled matcher plus resolved permission flags for one path
type AccessPattern struct {
	Pattern   string `json:"pattern"`
	Module    string `json:"module"`
	CanView   int    `json:"can_view"`
	CanCreate int    `json:"can_create"`
	CanEdit   int    `json:"can_edit"`
	CanDelete int    `json:"can_delete"`

	re *regexp.Regexp
}

// AccessTable answers route and module access queries for one user.
// An empty Patterns slice means permission data was absent or failed to load;
// the table then answers every query with the fail-open default (or deny,
// when compiled with failClosed). The server remains the real authority —
// this table only gates what the client offers.
type AccessTable struct {
	Patterns   []AccessPattern `json:"patterns"`
	Modules    []string        `json:"modules"`
	FailClosed bool            `json:"-"`
}

// Compile merges pages and per-user grants into an AccessTable.
// Every page with a path gets a view-only entry; a grant whose page_id
// resolves to a known page overwrites that path's four flags. At most one
// entry exists per distinct path string.
func Compile(ownerNo int64, pages []page.Page, grants []page.PermissionGrant, failClosed bool) AccessTable {
	table := AccessTable{FailClosed: failClosed}
	if ownerNo <= 0 || len(pages) == 0 {
		return table
	}

	pathByPage := make(map[string]string, len(pages))
	indexByPath := make(map[string]int, len(pages))

	for _, p := range pages {
		path := strings.TrimSpace(p.Path)
		if path == "" {
			continue
		}
		pathByPage[p.ID.Hex()] = path
		if _, seen := indexByPath[path]; seen {
			continue
		}
		indexByPath[path] = len(table.Patterns)
		table.Patterns = append(table.Patterns, AccessPattern{
			Pattern: path,
			Module:  p.Module,
			CanView: 1,
		})
	}

	for _, g := range grants {
		path, ok := pathByPage[g.PageID.Hex()]
		if !ok {
			continue
		}
		idx := indexByPath[path]
		table.Patterns[idx].CanView = normFlag(g.CanView)
		table.Patterns[idx].CanCreate = normFlag(g.CanCreate)
		table.Patterns[idx].CanEdit = normFlag(g.CanEdit)
		table.Patterns[idx].CanDelete = normFlag(g.CanDelete)
	}

	for i := range table.Patterns {
		table.Patterns[i].re = compilePattern(table.Patterns[i].Pattern)
	}

	seen := make(map[string]bool)
	for _, p := range table.Patterns {
		if p.CanView == 0 || p.Module == "" || seen[p.Module] {
			continue
		}
		seen[p.Module] = true
		table.Modules = append(table.Modules, p.Module)
	}

	return table
}

// compilePattern turns a route path into an anchored regexp where every
// ":param" segment matches one or more non-slash characters.
func compilePattern(path string) *regexp.Regexp {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			segments[i] = "[^/]+"
		} else {
			segments[i] = regexp.QuoteMeta(seg)
		}
	}
	re, err := regexp.Compile("^" + strings.Join(segments, "/") + "$")
	if err != nil {
		// A path that defeats quoting matches nothing rather than everything
		return regexp.MustCompile(`^\z.`)
	}
	return re
}

func normFlag(v int) int {
	if v != 0 {
		return 1
	}
	return 0
}

// find returns the entry for a path: exact string equality wins over regex,
// and among regex candidates the first-declared entry wins.
func (t *AccessTable) find(path string) *AccessPattern {
	for i := range t.Patterns {
		if t.Patterns[i].Pattern == path {
			return &t.Patterns[i]
		}
	}
	for i := range t.Patterns {
		if t.Patterns[i].re != nil && t.Patterns[i].re.MatchString(path) {
			return &t.Patterns[i]
		}
	}
	return nil
}

// HasAccess reports whether the table permits the given action on a route.
// Paths ending in /edit, /new or /create are checked against their base
// path first, so a user who can view or mutate the base screen may open
// the derived screen even without a dedicated entry for it.
func (t *AccessTable) HasAccess(path, action string) bool {
	if len(t.Patterns) == 0 {
		return t.openDefault()
	}

	switch {
	case strings.HasSuffix(path, "/edit"):
		if e := t.find(strings.TrimSuffix(path, "/edit")); e != nil {
			return e.CanView != 0 || e.CanEdit != 0
		}
		if e := t.find(path); e != nil {
			return e.CanEdit != 0 || e.CanView != 0
		}
		return t.openDefault()

	case strings.HasSuffix(path, "/new"), strings.HasSuffix(path, "/create"):
		base := strings.TrimSuffix(strings.TrimSuffix(path, "/new"), "/create")
		if e := t.find(base); e != nil {
			return e.CanView != 0 || e.CanCreate != 0
		}
		if e := t.find(path); e != nil {
			return e.CanCreate != 0 || e.CanView != 0
		}
		return t.openDefault()

	default:
		e := t.find(path)
		if e == nil {
			return t.openDefault()
		}
		switch action {
		case ActionCreate:
			return e.CanCreate != 0
		case ActionEdit:
			return e.CanEdit != 0
		case ActionDelete:
			return e.CanDelete != 0
		default:
			return e.CanView != 0
		}
	}
}

// HasModuleAccess reports whether a module label is visible to the user
func (t *AccessTable) HasModuleAccess(module string) bool {
	if len(t.Modules) == 0 {
		return t.openDefault()
	}
	for _, m := range t.Modules {
		if m == module {
			return true
		}
	}
	return false
}

func (t *AccessTable) openDefault() bool {
	return !t.FailClosed
}
