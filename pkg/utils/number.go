package utils

import "math"

// RoundToPrecision arredonda f para a precisão informada (ex.: 1e-6)
func RoundToPrecision(f float64, precision float64) float64 {
	if f == 0 || precision <= 0 {
		return f
	}

	scale := math.Round(1 / precision)
	return math.Round(f*scale) / scale
}

// Percentage devolve part/total em pontos percentuais inteiros
func Percentage(part, total int) int {
	if total == 0 {
		return 0
	}

	return int(math.Round(float64(part) * 100 / float64(total)))
}
