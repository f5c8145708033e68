package instance

import "os"

// GetID returns the process instance identifier used in logs: the explicit
// CAFEPOS_INSTANCE_ID, else the host name, else "local".
func GetID() string {
	if id := os.Getenv("CAFEPOS_INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
