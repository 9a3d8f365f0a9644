package geometry

// PixelsToDuration converts a horizontal pointer delta into seconds
func PixelsToDuration(deltaPx, pixelsPerSecond float64) float64 {
	if pixelsPerSecond <= 0 {
		return 0
	}
	return deltaPx / pixelsPerSecond
}

// PixelsToPower converts a vertical pointer delta into an FTP fraction;
// deltaPx must already be oriented so that positive means "more power"
func PixelsToPower(deltaPx, pixelsPerPercent float64) float64 {
	if pixelsPerPercent <= 0 {
		return 0
	}
	return deltaPx / pixelsPerPercent / 100
}

// DurationToPixels is the inverse of PixelsToDuration
func DurationToPixels(seconds, pixelsPerSecond float64) float64 {
	return seconds * pixelsPerSecond
}

// PowerToPixels is the inverse of PixelsToPower
func PowerToPixels(power, pixelsPerPercent float64) float64 {
	return power * 100 * pixelsPerPercent
}
