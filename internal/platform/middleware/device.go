package middleware

import (
	"net/http"

	"github.com/mssola/useragent"
)

// DeviceFromRequest derives a short device description from the User-Agent
// header for audit attribution. Returns "unknown" when nothing useful can be
// parsed.
func DeviceFromRequest(r *http.Request) string {
	raw := r.UserAgent()
	if raw == "" {
		return "unknown"
	}

	ua := useragent.New(raw)
	name, version := ua.Browser()
	os := ua.OS()

	switch {
	case name != "" && os != "":
		return name + " " + version + " (" + os + ")"
	case name != "":
		return name + " " + version
	case os != "":
		return os
	default:
		return "unknown"
	}
}
