/*package eq is a simple package for telling whether two arrays are equal to
one another.*/
package eq

// Ints returns true if two []int arrays are the same and false otherwise.
func Ints(x, y []int) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// IntGrids returns true if two [][]int arrays are the same and false
// otherwise.
func IntGrids(x, y [][]int) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Ints(x[i], y[i]) {
			return false
		}
	}
	return true
}

// Uint64s returns true if two []uint64 arrays are the same and false
// otherwise.
func Uint64s(x, y []uint64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float64s returns true if two []float64 arrays are the same and false
// otherwise.
func Float64s(x, y []float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
