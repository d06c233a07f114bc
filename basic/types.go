package basic

import (
	"fmt"
	"math"
	"strings"
)

// Vector is a single-precision vector tagged with its database id. The id
// doubles as the vector's row index in the store; Values are stored the
// way they are written to disk, one 32-bit float per dimension.
type Vector struct {
	ID     int64
	Values []float32
}

const epsilon = 1e-6

func (v Vector) Equals(other Vector) bool {
	if len(v.Values) != len(other.Values) {
		return false
	}
	for i, val := range v.Values {
		if !floatEquals(val, other.Values[i]) {
			return false
		}
	}
	return true
}

func floatEquals(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

func (v Vector) String() string {
	stringValues := make([]string, len(v.Values))
	for i, value := range v.Values {
		stringValues[i] = fmt.Sprintf("%.2f", value)
	}
	return fmt.Sprintf("Vector{ID:%v,Values:[%v]}", v.ID, strings.Join(stringValues, ", "))
}
