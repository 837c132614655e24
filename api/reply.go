package api

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// replyInfo is one declared variant of a route's response.
type replyInfo struct {
	status int
	typ    reflect.Type
	schema JSONSchema
}

// replySet maps status codes to the variant declared for them.
type replySet map[int]replyInfo

// statuses returns the declared status codes in ascending order.
func (rs replySet) statuses() []int {
	codes := make([]int, 0, len(rs))
	for code := range rs {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

var errNoReplies = errors.New("interface response type needs WithReplies")

// resolveReplies builds the reply set for a route. A concrete response type
// declares itself; an interface response type needs explicit variants, each
// of which must implement it and claim a distinct status.
func resolveReplies(respType reflect.Type, variants []Reply) (replySet, error) {
	if len(variants) == 0 {
		if respType.Kind() == reflect.Interface {
			return nil, fmt.Errorf("%w: %s", errNoReplies, respType)
		}
		variants = []Reply{zeroReply(respType)}
	}

	rs := make(replySet, len(variants))
	for _, v := range variants {
		if v == nil {
			return nil, errors.New("nil reply variant")
		}
		vt := reflect.TypeOf(v)
		if !vt.AssignableTo(respType) {
			return nil, fmt.Errorf("reply %s does not implement %s", vt, respType)
		}

		status := v.StatusCode()
		if status < 100 || status > 599 {
			return nil, fmt.Errorf("reply %s has invalid status %d", vt, status)
		}
		if prev, ok := rs[status]; ok {
			return nil, fmt.Errorf("replies %s and %s both claim status %d", prev.typ, vt, status)
		}

		rs[status] = replyInfo{
			status: status,
			typ:    vt,
			schema: typeToSchema(vt),
		}
	}
	return rs, nil
}

// zeroReply returns a usable zero value of a concrete reply type. Pointer
// types get a fresh value so StatusCode never sees a nil receiver.
func zeroReply(t reflect.Type) Reply {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(Reply) //nolint:forcetypeassert // t implements Reply via Handler constraint
	}
	return reflect.Zero(t).Interface().(Reply) //nolint:forcetypeassert // t implements Reply via Handler constraint
}

// isNilReply reports whether a handler returned no reply at all.
func isNilReply(r Reply) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
