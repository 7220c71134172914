package crud

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// idExtractor builds the entity id lookup for a module. An explicit
// override wins; otherwise the configured id attribute is read
// reflectively off maps (by key) and structs (by json tag, then field
// name, case-insensitively).
func idExtractor[T any](attribute string, override func(T) (string, bool)) func(T) (string, bool) {
	if override != nil {
		return override
	}
	return func(entity T) (string, bool) {
		return reflectID(reflect.ValueOf(entity), attribute)
	}
}

// reflectID resolves the id attribute on an arbitrary entity value.
func reflectID(v reflect.Value, attribute string) (string, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return "", false
		}
		key := reflect.ValueOf(attribute).Convert(v.Type().Key())
		elem := v.MapIndex(key)
		if !elem.IsValid() {
			return "", false
		}
		return stringifyID(elem.Interface())

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Name
			if tag, ok := f.Tag.Lookup("json"); ok {
				if comma := strings.IndexByte(tag, ','); comma >= 0 {
					tag = tag[:comma]
				}
				if tag == "-" {
					continue
				}
				if tag != "" {
					name = tag
				}
			}
			if strings.EqualFold(name, attribute) {
				return stringifyID(v.Field(i).Interface())
			}
		}
	}

	return "", false
}

// stringifyID converts an id value of any supported type to its string
// form. All id comparisons in the module use this form, so numeric and
// string ids referring to the same value collide correctly.
func stringifyID(id any) (string, bool) {
	switch v := id.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), v.String() != ""
	case int:
		return strconv.Itoa(v), true
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", v), true
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		// JSON numbers decode to float64; integral ids must not grow
		// a fractional suffix.
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		rv := reflect.ValueOf(id)
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return "", false
			}
			rv = rv.Elem()
		}
		s := fmt.Sprint(rv.Interface())
		return s, s != ""
	}
}
