package analyzer

// Estimate converts a raw chamber count into cells per microliter and
// classifies it against the configured reference range.
//
// The conversion factor dilution/volume is truncated to an integer before
// multiplying. With the standard protocol (200 / 0.1) nothing is lost,
// but the truncation is kept for numeric parity with the reference
// procedure even where other dilution ratios would round down.
func Estimate(rawCount int, p Params) (perUL int, interp Interpretation) {
	factor := int(p.DilutionFactor / p.ChamberVolumeUL)
	perUL = rawCount * factor

	switch {
	case perUL < p.LowThreshold:
		interp = InterpretationLow
	case perUL > p.HighThreshold:
		interp = InterpretationHigh
	default:
		interp = InterpretationNormal
	}
	return perUL, interp
}
