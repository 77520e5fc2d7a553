package compute

// CompensateHumidity applies the US EPA correction for optical particulate
// sensors, which over-count hygroscopic particle growth at high relative
// humidity:
//
//	pm_corrected = 0.524*pm_raw - 0.0852*rh + 5.72
//
// The result is floored at zero; the formula can go negative for very clean
// air at high humidity.
func CompensateHumidity(pmRaw, humidityPct float64) float64 {
	v := 0.524*pmRaw - 0.0852*humidityPct + 5.72
	if v < 0 {
		return 0
	}
	return v
}
