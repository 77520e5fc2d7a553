package alerts

import (
	"strconv"
	"strings"

	"github.com/airgauge/airgauge/pkg/types"
)

// evalCondition evaluates a rule condition string against a Sample.
//
// Supported expressions (field operator value):
//
//	aqi > 150
//	pm25 > 35.4
//	pm10 > 154
//	co2_ppm > 1500
//	temperature_c > 30
//	humidity_pct < 20
//	uptime_pct < 60
//	category == hazardous
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed, the field is
// unknown, or the sample does not carry the field.
func evalCondition(cond string, s *types.Sample) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "category" {
		if op == "==" {
			return s.Category == rhs, 0
		}
		return false, 0
	}

	v, ok := s.Field(field)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
