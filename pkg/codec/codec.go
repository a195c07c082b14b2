package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Type tags stored in the block_attributes.type column.
const (
	TagString  = "string"
	TagInteger = "integer"
	TagFloat   = "float"
	TagBoolean = "boolean"
	TagArray   = "array"
	// TagJSON is accepted as a decode alias for TagArray. Older rows written
	// before the tags were consolidated still carry it.
	TagJSON = "json"
)

// FileList is the explicit value type for uploaded-file references: a list
// of storage paths. Editors that accept uploads must wrap paths in a
// FileList before saving; the codec never guesses whether a map "looks
// like" an upload.
type FileList []string

// Encode converts a typed value into its stored string form plus a type
// tag. Supported shapes: bool, string, all int/uint widths, float32/64,
// FileList, and JSON-representable slices and maps. Anything else is a
// caller error; pre-serialize before saving.
func Encode(v interface{}) (string, string, error) {
	switch val := v.(type) {
	case nil:
		return "", "", fmt.Errorf("cannot encode nil value")
	case bool:
		if val {
			return "1", TagBoolean, nil
		}
		return "0", TagBoolean, nil
	case string:
		return val, TagString, nil
	case int:
		return strconv.FormatInt(int64(val), 10), TagInteger, nil
	case int8:
		return strconv.FormatInt(int64(val), 10), TagInteger, nil
	case int16:
		return strconv.FormatInt(int64(val), 10), TagInteger, nil
	case int32:
		return strconv.FormatInt(int64(val), 10), TagInteger, nil
	case int64:
		return strconv.FormatInt(val, 10), TagInteger, nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), TagInteger, nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), TagInteger, nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), TagInteger, nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), TagInteger, nil
	case uint64:
		return strconv.FormatUint(val, 10), TagInteger, nil
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 64), TagFloat, nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), TagFloat, nil
	case FileList:
		raw, err := json.Marshal([]string(val))
		if err != nil {
			return "", "", err
		}
		return string(raw), TagArray, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", "", fmt.Errorf("unsupported value shape %T: %w", v, err)
		}
		// Only slices and maps are meant to land here; a struct would
		// marshal fine but not round-trip, so reject it.
		switch v.(type) {
		case []interface{}, []string, []int, []float64, map[string]interface{}, map[string]string:
			return string(raw), TagArray, nil
		}
		return "", "", fmt.Errorf("unsupported value shape %T", v)
	}
}

// Decode is the inverse of Encode. It is best-effort: the read path must
// never fail rendering over one bad row, so malformed payloads decode to
// nil rather than returning an error.
func Decode(value string, tag string) interface{} {
	switch tag {
	case TagArray, TagJSON:
		var out interface{}
		if err := json.Unmarshal([]byte(value), &out); err != nil {
			return nil
		}
		return out
	case TagInteger:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil
		}
		return n
	case TagFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil
		}
		return f
	case TagBoolean:
		return value == "1" || value == "true"
	default:
		return value
	}
}
