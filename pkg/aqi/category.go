package aqi

// Category names for the six EPA index bands.
const (
	CategoryGood          = "good"
	CategoryModerate      = "moderate"
	CategorySensitive     = "sensitive" // unhealthy for sensitive groups
	CategoryUnhealthy     = "unhealthy"
	CategoryVeryUnhealthy = "very_unhealthy"
	CategoryHazardous     = "hazardous"
)

// Category maps an AQI value to its EPA descriptor. Values outside [0, 500]
// are clamped into the nearest band.
func Category(index int) string {
	switch {
	case index <= 50:
		return CategoryGood
	case index <= 100:
		return CategoryModerate
	case index <= 150:
		return CategorySensitive
	case index <= 200:
		return CategoryUnhealthy
	case index <= 300:
		return CategoryVeryUnhealthy
	default:
		return CategoryHazardous
	}
}
