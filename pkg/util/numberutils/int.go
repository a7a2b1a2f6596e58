package numberutils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIntInRange converts the given string to an integer within [minVal, maxVal].
// Surrounding whitespace is not accepted.
func ParseIntInRange(str string, minVal int, maxVal int) (int, error) {
	if str == "" || strings.TrimSpace(str) != str {
		return 0, fmt.Errorf("%q is not an integer", str)
	}

	i, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", str)
	}
	if i < minVal || i > maxVal {
		return 0, fmt.Errorf("%d is out of range [%d, %d]", i, minVal, maxVal)
	}
	return i, nil
}

// ToIntWithDefault converts the given string to an integer within [minVal, maxVal].
// An empty string returns the provided default value.
func ToIntWithDefault(str string, defaultVal int, minVal int, maxVal int) (int, error) {
	if str == "" {
		return defaultVal, nil
	}
	return ParseIntInRange(str, minVal, maxVal)
}
