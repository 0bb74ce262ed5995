package api

import (
	"bufio"
	"net/http"
	"os"
	"runtime"
	"strings"
)

// ServerVersion is reported by the info endpoint.
const ServerVersion = "1.0.0"

// supportedAPIVersions lists the wire protocol versions this server speaks.
var supportedAPIVersions = []int{1}

type infoResponse struct {
	SupportedAPIVersions []int  `json:"supported_api_versions"`
	ServerVersion        string `json:"server_version"`
	OS                   string `json:"os"`
	OSVersion            string `json:"os_version"`
}

// Info handles GET /info. Unauthenticated; clients use it to check protocol
// compatibility before logging in.
func Info(w http.ResponseWriter, r *http.Request) {
	name, version := osRelease()
	jsonResponse(w, http.StatusOK, infoResponse{
		SupportedAPIVersions: supportedAPIVersions,
		ServerVersion:        ServerVersion,
		OS:                   name,
		OSVersion:            version,
	})
}

// osRelease reads the host OS name and version from /etc/os-release, falling
// back to the Go runtime's OS identifier.
func osRelease() (name, version string) {
	name = runtime.GOOS

	f, err := os.Open("/etc/os-release")
	if err != nil {
		return name, ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "NAME":
			name = value
		case "VERSION_ID":
			version = value
		}
	}
	return name, version
}
