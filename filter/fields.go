package filter

import (
	"fmt"
	"reflect"
)

// Fields returns an extractor reading the named fields of a struct (or keys
// of a string-keyed map) and concatenating their values into a term list.
// Named fields must hold a string or a []string; anything else is a misuse
// of the extraction contract and panics at first extraction rather than
// being silently skipped.
func Fields[T any](names ...string) func(T) []string {
	return func(item T) []string {
		v := reflect.ValueOf(item)
		for v.Kind() == reflect.Pointer {
			v = v.Elem()
		}

		terms := make([]string, 0, len(names))
		for _, name := range names {
			var fv reflect.Value
			switch v.Kind() {
			case reflect.Struct:
				fv = v.FieldByName(name)
			case reflect.Map:
				fv = v.MapIndex(reflect.ValueOf(name))
			default:
				panic(fmt.Sprintf("filter: cannot extract fields from %T", item))
			}
			if !fv.IsValid() {
				panic(fmt.Sprintf("filter: %T has no field %q", item, name))
			}
			terms = append(terms, fieldTerms(item, name, fv)...)
		}
		return terms
	}
}

// Single adapts an extractor that yields one term per item.
func Single[T any](fn func(T) string) func(T) []string {
	return func(item T) []string {
		return []string{fn(item)}
	}
}

func fieldTerms(item any, name string, fv reflect.Value) []string {
	if fv.Kind() == reflect.Interface {
		fv = fv.Elem()
	}

	switch {
	case fv.Kind() == reflect.String:
		return []string{fv.String()}
	case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String:
		terms := make([]string, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			terms[i] = fv.Index(i).String()
		}
		return terms
	default:
		panic(fmt.Sprintf("filter: field %q of %T is not a string or []string", name, item))
	}
}
