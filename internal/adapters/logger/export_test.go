package logger

// FormatError renders err the way Logger.Error does in pretty mode.
func FormatError(err error) string {
	return formatEntries(collectEntries(err))
}
