package nav

import "strings"

// IsActive reports whether route should be highlighted while currentPath is
// displayed. The root route matches only itself; any other route matches
// itself and its sub-paths. Query strings, fragments and trailing slashes
// are ignored on both sides.
func IsActive(currentPath, route string) bool {
	route = normalizePath(route)
	if route == "" {
		return false
	}
	current := normalizePath(currentPath)
	if current == "" {
		current = "/"
	}
	if route == "/" {
		return current == "/"
	}
	return current == route || strings.HasPrefix(current, route+"/")
}

func normalizePath(raw string) string {
	value := strings.TrimSpace(raw)
	if i := strings.IndexAny(value, "?#"); i >= 0 {
		value = value[:i]
	}
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	if trimmed := strings.TrimRight(value, "/"); trimmed != "" {
		return trimmed
	}
	return "/"
}

// Item is a navigation entry as handed to the rendering layer.
type Item struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// Mark returns a copy of items with Active set for currentPath.
func Mark(currentPath string, items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		item.Active = IsActive(currentPath, item.Path)
		out[i] = item
	}
	return out
}
