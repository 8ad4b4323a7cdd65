package environment

// SetStartupDotenv replaces what was read from the startup .env
func SetStartupDotenv(path string) (restore func()) {
	previous := startupDotenv
	startupDotenv = readStartupDotenv(path)
	return func() { startupDotenv = previous }
}
