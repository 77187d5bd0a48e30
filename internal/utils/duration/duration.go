// Package duration parses retention periods such as "7", "7d", "2weeks" or "3 days".
package duration

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	longform "github.com/k1LoW/duration"
)

var unitMap = map[string]string{
	"h":      "h",
	"hour":   "h",
	"hours":  "h",
	"d":      "d",
	"day":    "d",
	"days":   "d",
	"w":      "w",
	"week":   "w",
	"weeks":  "w",
	"m":      "m",
	"month":  "m",
	"months": "m",
	"y":      "y",
	"year":   "y",
	"years":  "y",
}

var unitDurations = map[string]time.Duration{
	"h": 1 * time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
	"m": 30 * 24 * time.Hour,
	"y": 365 * 24 * time.Hour,
}

var (
	// ErrInvalidFormat indicates the input duration string contains invalid characters
	ErrInvalidFormat = errors.New("invalid duration format")

	// ErrInvalidNumber indicates the numeric part is invalid or not positive
	ErrInvalidNumber = errors.New("invalid duration number")

	// ErrInvalidUnit indicates the unit part is not recognized
	ErrInvalidUnit = errors.New("invalid duration unit")
)

// Parse parses a retention period.
// A bare number is a count of days. Inputs containing spaces ("3 days",
// "1 day 12 hours") are handed to the long-form parser.
func Parse(input string) (time.Duration, error) {
	if input = strings.TrimSpace(input); input == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidFormat)
	}

	if strings.ContainsAny(input, " \t") {
		d, err := longform.Parse(input)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if d < 0 {
			return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidNumber, input)
		}
		return d, nil
	}

	numStr, unit, err := splitNumberAndUnit(strings.ToLower(input))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid characters", ErrInvalidFormat)
	}

	num, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("%w: must be a number", ErrInvalidNumber)
	}

	if num < 0 {
		return 0, fmt.Errorf("%w: must be positive", ErrInvalidNumber)
	}

	if unit == "" {
		unit = "d"
	}

	mappedUnit, exists := unitMap[unit]
	if !exists {
		return 0, fmt.Errorf("%w: '%s' (supported: h, d, w, m, y)", ErrInvalidUnit, unit)
	}

	unitDuration := unitDurations[mappedUnit]
	if int64(num) > math.MaxInt64/int64(unitDuration) {
		return 0, fmt.Errorf("%w: %s is too large", ErrInvalidNumber, input)
	}
	return time.Duration(num) * unitDuration, nil
}

func splitNumberAndUnit(input string) (string, string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", "", fmt.Errorf("%w: empty input", ErrInvalidFormat)
	}

	numPart := strings.Builder{}
	unitPart := strings.Builder{}

	for _, r := range input {
		switch {
		case unicode.IsDigit(r):
			// digits only lead, "1d2" is not a duration
			if unitPart.Len() > 0 {
				return "", "", ErrInvalidFormat
			}
			numPart.WriteRune(r)
		case unicode.IsLetter(r):
			unitPart.WriteRune(r)
		default:
			return "", "", ErrInvalidFormat
		}
	}
	return numPart.String(), unitPart.String(), nil
}
