package schema

// Structural transforms for use with Overlay.ModifySchema. Removals recurse
// through every container; inserts recurse through sections only, because
// the editor clones leaf fields into anonymous groups per locale and an
// insert matching a clone would duplicate the new field once per locale tab.

// RemoveFields drops leaf fields by name, descending through all
// containers. Containers left empty are dropped too.
func RemoveFields(names ...string) TransformFunc {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var strip func(fields []FieldDef) []FieldDef
	strip = func(fields []FieldDef) []FieldDef {
		out := fields[:0]
		for _, f := range fields {
			if f.Kind == KindField {
				if drop[f.Name] {
					continue
				}
				out = append(out, f)
				continue
			}
			f.Children = strip(f.Children)
			if len(f.Children) == 0 {
				continue
			}
			out = append(out, f)
		}
		return out
	}
	return func(fields []FieldDef) []FieldDef {
		return strip(fields)
	}
}

// RemoveSection drops the first section whose label matches, at any depth.
func RemoveSection(label string) TransformFunc {
	var strip func(fields []FieldDef) ([]FieldDef, bool)
	strip = func(fields []FieldDef) ([]FieldDef, bool) {
		for i := range fields {
			if fields[i].Kind == KindSection && fields[i].Label == label {
				return append(fields[:i:i], fields[i+1:]...), true
			}
			if len(fields[i].Children) > 0 {
				if children, done := strip(fields[i].Children); done {
					fields[i].Children = children
					return fields, true
				}
			}
		}
		return fields, false
	}
	return func(fields []FieldDef) []FieldDef {
		out, _ := strip(fields)
		return out
	}
}

// InsertBefore places newFields immediately before the named field. The
// search descends into sections but not into groups.
func InsertBefore(name string, newFields ...FieldDef) TransformFunc {
	return insertAt(name, 0, newFields)
}

// InsertAfter places newFields immediately after the named field. The
// search descends into sections but not into groups.
func InsertAfter(name string, newFields ...FieldDef) TransformFunc {
	return insertAt(name, 1, newFields)
}

func insertAt(name string, offset int, newFields []FieldDef) TransformFunc {
	var insert func(fields []FieldDef) ([]FieldDef, bool)
	insert = func(fields []FieldDef) ([]FieldDef, bool) {
		for i := range fields {
			if fields[i].Kind == KindField && fields[i].Name == name {
				at := i + offset
				out := make([]FieldDef, 0, len(fields)+len(newFields))
				out = append(out, fields[:at]...)
				out = append(out, newFields...)
				out = append(out, fields[at:]...)
				return out, true
			}
			if fields[i].Kind == KindSection {
				if children, done := insert(fields[i].Children); done {
					fields[i].Children = children
					return fields, true
				}
			}
		}
		return fields, false
	}
	return func(fields []FieldDef) []FieldDef {
		out, _ := insert(fields)
		return out
	}
}

// Append adds fields at the end of the top-level list.
func Append(newFields ...FieldDef) TransformFunc {
	return func(fields []FieldDef) []FieldDef {
		return append(fields, newFields...)
	}
}

// Prepend adds fields at the start of the top-level list.
func Prepend(newFields ...FieldDef) TransformFunc {
	return func(fields []FieldDef) []FieldDef {
		return append(append([]FieldDef{}, newFields...), fields...)
	}
}
