package constants

// Control API paths shared between router and CLI commands.
const (
	PathHealth = "/health"
	PathReady  = "/ready"
	PathLogin  = "/login"
	PathLogout = "/logout"
)
