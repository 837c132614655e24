package api

import (
	"reflect"
	"strings"
)

// paramTags are the struct tags used for binding request parameters.
var paramTags = []string{"path", "query"}

// hasParamTags reports whether the given type has any fields with
// parameter binding tags.
func hasParamTags(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		if isParamField(t.Field(i)) {
			return true
		}
	}
	return false
}

// isParamField reports whether an exported struct field has a parameter
// binding tag.
func isParamField(f reflect.StructField) bool {
	if !f.IsExported() {
		return false
	}
	for _, tag := range paramTags {
		if f.Tag.Get(tag) != "" {
			return true
		}
	}
	return false
}

// tagOptions splits a struct tag value on comma and returns
// the name and remaining options.
func tagOptions(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}

// tagContains reports whether a comma-separated list of options
// contains a particular option.
func tagContains(opts string, name string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == name {
			return true
		}
	}
	return false
}
