package domain

const mmolToMg = 18.0182

// ConvertGlucose converts a glucose level between mmol/L and mg/dL.
// Returns v unchanged if from == to or if either unit is unknown.
func ConvertGlucose(v float64, from, to BGLUnit) float64 {
	if from == to {
		return v
	}
	if from == MmolPerL && to == MgPerDL {
		return v * mmolToMg
	}
	if from == MgPerDL && to == MmolPerL {
		return v / mmolToMg
	}
	return v
}
