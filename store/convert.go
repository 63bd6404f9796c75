package store

import "github.com/forbearing/coredb/value"

// toMap converts an internal Object into a plain Go map for JSON storage.
func toMap(obj *value.Object) map[string]any {
	out := make(map[string]any, obj.Len())
	obj.Range(func(k string, v value.Value) { out[k] = toNative(v) })
	return out
}

func toNative(v value.Value) any {
	if v.IsNoneOrNull() {
		return nil
	}
	if b, ok := v.Bool(); ok {
		return b
	}
	if s, ok := v.String(); ok {
		return s
	}
	if arr, ok := v.Array(); ok {
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = toNative(e)
		}
		return out
	}
	if o, ok := v.Object(); ok {
		return toMap(o)
	}
	return v.Raw()
}

// fromMap converts a plain Go map (as decoded from JSON storage) back into
// an internal Object.
func fromMap(m map[string]any) value.Value {
	obj := value.NewObject()
	for k, v := range m {
		obj.Set(k, fromNative(v))
	}
	return value.Of(obj)
}

func fromNative(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.NullValue()
	case bool:
		return value.Of(t)
	case string:
		return value.Of(t)
	case float64:
		return value.Of(t)
	case []any:
		out := make([]value.Value, len(t))
		for i, e := range t {
			out[i] = fromNative(e)
		}
		return value.Of(out)
	case map[string]any:
		return fromMap(t)
	default:
		return value.Of(t)
	}
}
