package version

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

// Version information, set with -ldflags "-X" at build time.
var (
	BuildTS   = "None"
	GitHash   = "None"
	GitBranch = "None"
	Version   = "None"
)

func GetVersion() string {
	if GitHash != "" {
		h := GitHash
		if len(h) > 7 {
			h = h[:7]
		}
		return fmt.Sprintf("%s-%s", Version, h)
	}
	return Version
}

// Fprint writes the build information to w.
func Fprint(w io.Writer) {
	fmt.Fprintln(w, "Version:          ", GetVersion())
	fmt.Fprintln(w, "Git Branch:       ", GitBranch)
	fmt.Fprintln(w, "Git Commit:       ", GitHash)
	fmt.Fprintln(w, "Build Time (UTC): ", BuildTS)
	fmt.Fprintln(w, "Go Version:       ", runtime.Version())
}

// Printer print build version
func Printer() {
	Fprint(os.Stdout)
}
