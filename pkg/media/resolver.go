package media

import "strings"

// Resolver turns a stored uploaded-file value into a servable URL. Image
// conversion happens in an external service; this package only resolves
// references.
type Resolver interface {
	// ResolveURL resolves the first file of an uploaded-file value (a
	// decoded codec.FileList: []interface{} of paths, or a bare path
	// string) for a named conversion on a storage disk. Returns false when
	// the value holds no usable reference.
	ResolveURL(value interface{}, conversion, disk string) (string, bool)
}

// PassthroughResolver serves files from a public base URL without
// conversions. Enough for local disks and tests.
type PassthroughResolver struct {
	BaseURL string
}

func (r *PassthroughResolver) ResolveURL(value interface{}, conversion, disk string) (string, bool) {
	path := firstPath(value)
	if path == "" {
		return "", false
	}
	base := strings.TrimSuffix(r.BaseURL, "/")
	return base + "/" + strings.TrimPrefix(path, "/"), true
}

func firstPath(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
