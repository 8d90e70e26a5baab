package validations

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// AttributeReader gives rules read access to target attributes by name.
// Targets may implement it to expose computed or non-struct attributes;
// plain structs are read through reflection.
type AttributeReader interface {
	Attribute(name string) (value any, ok bool)
}

// AttributeWriter is used by Repository.Update to assign attributes.
type AttributeWriter interface {
	SetAttribute(name string, value any) error
}

// fieldIndex maps attribute names of one struct type to field index paths.
type fieldIndex map[string][]int

var fieldIndexCache sync.Map // reflect.Type -> fieldIndex

// ReadAttribute returns the value of attribute name on target.
// Struct fields are matched by Go name, json tag, gorm column tag and the snake_case
// form of the Go name, in that order of preference.
func ReadAttribute(target any, name string) (any, bool) {
	if r, ok := target.(AttributeReader); ok {
		return r.Attribute(name)
	}
	field, ok := lookupField(target, name)
	if !ok {
		return nil, false
	}
	return field.Interface(), true
}

// AssignAttributes sets every attribute of attrs on target.
func AssignAttributes(target any, attrs map[string]any) error {
	if len(attrs) == 0 {
		return nil
	}
	if w, ok := target.(AttributeWriter); ok {
		for name, value := range attrs {
			if err := w.SetAttribute(name, value); err != nil {
				return err
			}
		}
		return nil
	}
	for name, value := range attrs {
		field, ok := lookupField(target, name)
		if !ok || !field.CanSet() {
			return fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
		}
		if value == nil {
			field.Set(reflect.Zero(field.Type()))
			continue
		}
		rv := reflect.ValueOf(value)
		switch {
		case rv.Type().AssignableTo(field.Type()):
			field.Set(rv)
		case field.Kind() == reflect.Pointer && rv.Type().AssignableTo(field.Type().Elem()):
			ptr := reflect.New(field.Type().Elem())
			ptr.Elem().Set(rv)
			field.Set(ptr)
		case rv.Type().ConvertibleTo(field.Type()) && sameKindFamily(rv.Kind(), field.Kind()):
			field.Set(rv.Convert(field.Type()))
		default:
			return fmt.Errorf("%w: cannot assign %T to %s (%s)", ErrUnknownAttribute, value, name, field.Type())
		}
	}
	return nil
}

func lookupField(target any, name string) (reflect.Value, bool) {
	rv := reflect.ValueOf(target)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	idx, ok := indexFor(rv.Type())[name]
	if !ok {
		return reflect.Value{}, false
	}
	field, err := rv.FieldByIndexErr(idx)
	if err != nil {
		return reflect.Value{}, false
	}
	return field, true
}

func indexFor(t reflect.Type) fieldIndex {
	if cached, ok := fieldIndexCache.Load(t); ok {
		return cached.(fieldIndex)
	}
	idx := make(fieldIndex)
	// Lower preference names are registered first and overwritten later.
	fields := reflect.VisibleFields(t)
	for _, f := range fields {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		idx[snakeCase(f.Name)] = f.Index
	}
	for _, f := range fields {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if col := gormColumn(f.Tag.Get("gorm")); col != "" {
			idx[col] = f.Index
		}
	}
	for _, f := range fields {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; tag != "" && tag != "-" {
			idx[tag] = f.Index
		}
	}
	for _, f := range fields {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		idx[f.Name] = f.Index
	}
	actual, _ := fieldIndexCache.LoadOrStore(t, idx)
	return actual.(fieldIndex)
}

func gormColumn(tag string) string {
	for _, part := range strings.Split(tag, ";") {
		if col, ok := strings.CutPrefix(strings.TrimSpace(part), "column:"); ok {
			return col
		}
	}
	return ""
}

// snakeCase converts Go identifiers: FirstName -> first_name, HTTPCode -> http_code.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sameKindFamily(a, b reflect.Kind) bool {
	return kindFamily(a) != 0 && kindFamily(a) == kindFamily(b)
}

func kindFamily(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.String:
		return 2
	case reflect.Bool:
		return 3
	}
	return 0
}

// indirect dereferences pointers and returns nil for nil pointers.
func indirect(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

// isBlank reports nil, whitespace-only strings and empty collections.
func isBlank(value any) bool {
	value = indirect(value)
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() == 0
	}
	return false
}

func typeName(target any) string {
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}
