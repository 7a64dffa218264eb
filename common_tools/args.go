package common_tools

import (
	"encoding/json"
	"fmt"
	"math"
)

// MaxExactInt is the largest magnitude a float64 holds without losing integer
// precision. Larger JSON numbers are rejected rather than rounded.
const MaxExactInt = 1 << 53

// IntArg reads an integer argument. JSON decoding hands numbers over as float64,
// so whole floats up to MaxExactInt in magnitude are accepted.
func IntArg(args map[string]interface{}, name string) (int, error) {
	v, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", name)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("argument %q must be an integer, got %v", name, n)
		}
		if math.Abs(n) > MaxExactInt {
			return 0, fmt.Errorf("argument %q is too large to be exact: %v", name, n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("argument %q must be an integer: %w", name, err)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("argument %q must be an integer, got %T", name, v)
	}
}

// StringArg reads a string argument.
func StringArg(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing argument %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", name, v)
	}
	return s, nil
}

func intPair(args map[string]interface{}) (int, int, error) {
	a, err := IntArg(args, "a")
	if err != nil {
		return 0, 0, err
	}
	b, err := IntArg(args, "b")
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
