package api

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
)

// decodeRequest creates a new Req value and populates it from the HTTP
// request. Every parameter is bound before failures are reported, so a single
// problem lists all of them.
func decodeRequest[Req any](r *http.Request) (*Req, error) {
	req := new(Req)
	if !hasParamTags(reflect.TypeFor[Req]()) {
		return req, nil
	}

	if perrs := bindParams(req, r); len(perrs) > 0 {
		return nil, paramProblem(perrs)
	}
	return req, nil
}

// bindParams binds path and query values to tagged struct fields.
func bindParams(target any, r *http.Request) []*ParamError {
	v := reflect.ValueOf(target)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	var perrs []*ParamError

	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		field := v.Field(i)

		if name := f.Tag.Get("path"); name != "" {
			val := r.PathValue(name)
			if val == "" {
				perrs = append(perrs, &ParamError{In: "path", Name: name, Err: ErrMissing})
				continue
			}
			if err := setFieldValue(field, val); err != nil {
				perrs = append(perrs, &ParamError{In: "path", Name: name, Value: val, Err: err})
			}
		}

		if name := f.Tag.Get("query"); name != "" {
			val := r.URL.Query().Get(name)
			if val == "" {
				val = f.Tag.Get("default")
			}
			if val == "" {
				if f.Tag.Get("required") == "true" {
					perrs = append(perrs, &ParamError{In: "query", Name: name, Err: ErrMissing})
				}
				continue
			}
			if err := setFieldValue(field, val); err != nil {
				perrs = append(perrs, &ParamError{In: "query", Name: name, Value: val, Err: err})
			}
		}
	}

	return perrs
}

// setFieldValue sets a reflect.Value from a string. Integers are parsed in
// base 10 at the width of the target field.
func setFieldValue(field reflect.Value, value string) error {
	//exhaustive:ignore
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return numError(err, ErrNotInteger)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return numError(err, ErrNotInteger)
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return numError(err, ErrNotNumber)
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return ErrNotBoolean
		}
		field.SetBool(b)
	default:
		return ErrUnsupported
	}
	return nil
}

func numError(err, syntax error) error {
	if errors.Is(err, strconv.ErrRange) {
		return ErrOutOfRange
	}
	return syntax
}
