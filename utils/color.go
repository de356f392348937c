package utils

// Embed colors.
const (
	ColorGreen  = 0x2ECC71
	ColorBlue   = 0x3498DB
	ColorYellow = 0xF1C40F
	ColorOrange = 0xE67E22
	ColorRed    = 0xE74C3C
	ColorDark   = 0x992D22
)

// LevelColor maps a system log level to its embed color.
func LevelColor(level LogLevel) int {
	switch level {
	case Info:
		return ColorGreen
	case Warn:
		return ColorOrange
	case Error:
		return ColorRed
	default:
		return ColorBlue
	}
}

// SeverityColor maps a moderation severity name (low, medium, high, critical) to an embed color.
func SeverityColor(severity string) int {
	switch severity {
	case "low":
		return ColorYellow
	case "medium":
		return ColorOrange
	case "high":
		return ColorRed
	case "critical":
		return ColorDark
	default:
		return ColorBlue
	}
}
