package toolchat

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/Desarso/toolchat/common_tools"
	"github.com/Desarso/toolchat/models"
)

// ValidateArgs checks args against a declaration's parameter schema: every
// required parameter must be present and every declared parameter must have
// the declared type. Whole floats count as integers since JSON numbers decode
// to float64, as long as they are exactly representable. Undeclared
// arguments are ignored.
func ValidateArgs(params models.Parameters, args map[string]interface{}) error {
	for _, name := range params.Required {
		if v, ok := args[name]; !ok || v == nil {
			return fmt.Errorf("missing required argument %q", name)
		}
	}

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := params.Property(name)
		if prop == nil {
			continue
		}
		want, _ := prop["type"].(string)
		if want == "" {
			continue
		}
		if !matchesType(want, args[name]) {
			return fmt.Errorf("argument %q must be of type %s, got %s", name, want, describe(args[name]))
		}
		if enum, ok := prop["enum"].([]string); ok && len(enum) > 0 {
			s, _ := args[name].(string)
			if !contains(enum, s) {
				return fmt.Errorf("argument %q must be one of %v, got %q", name, enum, s)
			}
		}
	}
	return nil
}

func matchesType(want string, v interface{}) bool {
	switch want {
	case "integer":
		switch n := v.(type) {
		case int, int32, int64:
			return true
		case float64:
			return n == math.Trunc(n) && math.Abs(n) <= common_tools.MaxExactInt
		case json.Number:
			_, err := n.Int64()
			return err == nil
		}
		return false
	case "number":
		switch v.(type) {
		case int, int32, int64, float32, float64, json.Number:
			return true
		}
		return false
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "object":
		_, ok := v.(map[string]interface{})
		return ok
	case "array":
		_, ok := v.([]interface{})
		return ok
	default:
		return true
	}
}

func describe(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, json.Number:
		return fmt.Sprintf("number (%v)", v)
	case int, int32, int64:
		return "integer"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
