package common_tools

import (
	"errors"
	"math"
)

var (
	// ErrDivisionByZero is returned by Divide and Modulus when b is zero.
	ErrDivisionByZero = errors.New("cannot divide by zero")
	// ErrIntegerOverflow is returned when a result does not fit in a 64-bit integer.
	ErrIntegerOverflow = errors.New("integer overflow")
)

// Multiply multiplies two numbers.
func Multiply(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, ErrIntegerOverflow
	}
	c := a * b
	if c/b != a {
		return 0, ErrIntegerOverflow
	}
	return c, nil
}

// Add adds two numbers.
func Add(a, b int) (int, error) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, ErrIntegerOverflow
	}
	return a + b, nil
}

// Subtract subtracts b from a.
func Subtract(a, b int) (int, error) {
	if (b < 0 && a > math.MaxInt+b) || (b > 0 && a < math.MinInt+b) {
		return 0, ErrIntegerOverflow
	}
	return a - b, nil
}

// Divide divides a by b.
func Divide(a, b int) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return float64(a) / float64(b), nil
}

// Modulus returns a mod b. The result takes the sign of b (floored modulus),
// so Modulus(-7, 3) is 2 rather than Go's -1.
func Modulus(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m, nil
}
