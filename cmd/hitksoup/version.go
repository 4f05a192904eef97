package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// shortCommitLength is the number of commit hash characters shown.
const shortCommitLength = 7

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`

	// Modified is true when the binary was built from a dirty work tree.
	Modified bool `json:"modified,omitempty"`
}

// String formats b for the version command.
func (b buildInfo) String() string {
	rev := b.Commit
	if b.Modified {
		rev += "-dirty"
	}
	return fmt.Sprintf("hitksoup %s (commit %s, built %s, %s)", b.Version, rev, b.Date, b.GoVersion)
}

// readBuildInfo collects the build information of the running binary.
// ldflags values win over the module build settings.
func readBuildInfo() buildInfo {
	bi, ok := debug.ReadBuildInfo()
	return newBuildInfo(bi, ok, version, commit, date)
}

func newBuildInfo(bi *debug.BuildInfo, ok bool, ldVersion, ldCommit, ldDate string) buildInfo {
	info := buildInfo{
		Version:   "(devel)",
		Commit:    "unknown",
		Date:      "unknown",
		GoVersion: runtime.Version(),
	}

	if ok && bi != nil {
		if bi.Main.Version != "" {
			info.Version = bi.Main.Version
		}
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				info.Date = s.Value
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	if ldVersion != "" {
		info.Version = ldVersion
	}
	if ldCommit != "" {
		info.Commit = ldCommit
	}
	if ldDate != "" {
		info.Date = ldDate
	}
	if len(info.Commit) > shortCommitLength {
		info.Commit = info.Commit[:shortCommitLength]
	}
	return info
}

// getVersion returns the version recorded in reports.
func getVersion() string {
	return readBuildInfo().Version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and Go version of hitksoup.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}

			info := readBuildInfo()
			if !asJSON {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info)
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Print version information as JSON")

	return cmd
}
