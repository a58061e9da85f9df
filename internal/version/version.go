package version

import "fmt"

// Populated at build time via -ldflags "-X crmdash/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

func String() string {
	base := Version
	if Commit != "" {
		base += fmt.Sprintf(" (%s)", Commit)
	}
	if Date != "" {
		base += fmt.Sprintf(" built %s", Date)
	}
	return base
}

// UserAgent is sent by the ingestion gateway.
func UserAgent() string { return "crmdash/" + Version }
