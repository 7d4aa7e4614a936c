package docx

import "math"

// Measurement units used by WordprocessingML.
const (
	TwipsPerInch  = 1440
	TwipsPerPoint = 20
	lineUnit      = 240
)

// Upper bounds Word accepts: 22 inches (1584 points) for twip measures, 1638
// points for font sizes and 132 lines for auto line spacing.
const (
	MaxTwips      = 31680
	MaxHalfPoints = 3276
	MaxLines      = 132
)

// fits reports whether value*scale rounds into [1, limit].
func fits(value, scale float64, limit int) bool {
	scaled := math.Round(value * scale)
	return scaled >= 1 && scaled <= float64(limit)
}

// InchesToTwips converts inches to twentieths of a point.
func InchesToTwips(inches float64) int {
	return int(math.Round(inches * TwipsPerInch))
}

// TwipsToInches converts twentieths of a point to inches.
func TwipsToInches(twips int) float64 {
	return float64(twips) / TwipsPerInch
}

// PointsToTwips converts points to twentieths of a point.
func PointsToTwips(points float64) int {
	return int(math.Round(points * TwipsPerPoint))
}

// TwipsToPoints converts twentieths of a point to points.
func TwipsToPoints(twips int) float64 {
	return float64(twips) / TwipsPerPoint
}

// PointsToHalfPoints converts a font size to the half-point unit of w:sz.
func PointsToHalfPoints(points float64) int {
	return int(math.Round(points * 2))
}

// HalfPointsToPoints converts a w:sz value back to points.
func HalfPointsToPoints(half int) float64 {
	return float64(half) / 2
}

// SpacingToLine converts a line-spacing multiplier to the 240ths used with
// lineRule="auto".
func SpacingToLine(multiplier float64) int {
	return int(math.Round(multiplier * lineUnit))
}

// LineToSpacing converts an auto line value back to a multiplier.
func LineToSpacing(line int) float64 {
	return float64(line) / lineUnit
}
