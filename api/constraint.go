package api

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// validateConstraints checks the constraint tags on bound parameter fields and
// returns a 400 ProblemDetail listing every violation.
func validateConstraints(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var errs []ValidationError
	t := rv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !isParamField(f) {
			continue
		}
		checkFieldConstraints(f, rv.Field(i), paramPath(f), &errs)
	}

	if len(errs) > 0 {
		return validationProblem(fmt.Sprintf("%d constraint violation(s)", len(errs)), errs)
	}
	return nil
}

// paramPath names a parameter field the way binding errors do.
func paramPath(f reflect.StructField) string {
	for _, tag := range paramTags {
		if name := f.Tag.Get(tag); name != "" {
			return tag + "." + name
		}
	}
	return f.Name
}

func checkFieldConstraints(f reflect.StructField, fv reflect.Value, path string, errs *[]ValidationError) {
	add := func(msg string, val any) {
		*errs = append(*errs, ValidationError{Field: path, Message: msg, Value: val})
	}

	if fv.Kind() == reflect.String {
		val := fv.String()
		if tag := f.Tag.Get("minLength"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && len(val) < n {
				add(fmt.Sprintf("must be at least %d characters", n), val)
			}
		}
		if tag := f.Tag.Get("maxLength"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && len(val) > n {
				add(fmt.Sprintf("must be at most %d characters", n), val)
			}
		}
		if tag := f.Tag.Get("pattern"); tag != "" {
			if matched, err := regexp.MatchString(tag, val); err == nil && !matched {
				add(fmt.Sprintf("must match pattern %s", tag), val)
			}
		}
		if tag := f.Tag.Get("enum"); tag != "" && !slices.Contains(strings.Split(tag, ","), val) {
			add(fmt.Sprintf("must be one of [%s]", tag), val)
		}
	}

	if isNumericKind(fv.Kind()) {
		floatVal := toFloat64(fv)
		if tag := f.Tag.Get("minimum"); tag != "" {
			if lower, err := strconv.ParseFloat(tag, 64); err == nil && floatVal < lower {
				add(fmt.Sprintf("must be at least %s", tag), floatVal)
			}
		}
		if tag := f.Tag.Get("maximum"); tag != "" {
			if upper, err := strconv.ParseFloat(tag, 64); err == nil && floatVal > upper {
				add(fmt.Sprintf("must be at most %s", tag), floatVal)
			}
		}
	}
}

func isNumericKind(k reflect.Kind) bool {
	//exhaustive:ignore
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func toFloat64(v reflect.Value) float64 {
	//exhaustive:ignore
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default: // float32, float64
		return v.Float()
	}
}
