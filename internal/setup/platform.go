package setup

import (
	"fmt"
	"os"
	"runtime"
)

// Platform is the host the bootstrap runs on.
type Platform struct {
	OS   string // "mac", "debian" or "linux"
	Arch string
}

// DetectPlatform identifies the host OS family. Only macOS and Linux are
// supported since the generated environment relies on POSIX venv layout.
func DetectPlatform() (Platform, error) {
	return detectPlatform(runtime.GOOS, runtime.GOARCH, func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	})
}

func detectPlatform(goos, goarch string, exists func(string) bool) (Platform, error) {
	p := Platform{Arch: goarch}
	switch goos {
	case "darwin":
		p.OS = "mac"
	case "linux":
		p.OS = "linux"
		if exists("/etc/debian_version") {
			p.OS = "debian"
		}
	default:
		return p, fmt.Errorf("unsupported OS: %s", goos)
	}
	return p, nil
}
