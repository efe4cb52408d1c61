package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
)

// Version information for all CLI tools
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-15"
	CommitSHA = "unknown" // Will be set during build
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version        string `json:"version"`
	BuildDate      string `json:"build_date"`
	CommitSHA      string `json:"commit_sha"`
	GoVersion      string `json:"go_version"`
	Platform       string `json:"platform"`
	Arch           string `json:"arch"`
	RuntimeLibrary string `json:"runtime_library,omitempty"`
}

// GetVersionInfo returns structured version information. runtimeLib is the
// default runtime library version the tool lowers against.
func GetVersionInfo(runtimeLib string) *VersionInfo {
	return &VersionInfo{
		Version:        Version,
		BuildDate:      BuildDate,
		CommitSHA:      CommitSHA,
		GoVersion:      runtime.Version(),
		Platform:       runtime.GOOS,
		Arch:           runtime.GOARCH,
		RuntimeLibrary: runtimeLib,
	}
}

// PrintVersion writes version information to w in a consistent format
func PrintVersion(w io.Writer, toolName, runtimeLib string, jsonOutput bool) {
	info := GetVersionInfo(runtimeLib)

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err == nil {
			fmt.Fprintln(w, string(data))
			return
		}
		// Fallback to plain text if JSON marshaling fails
		fmt.Fprintf(os.Stderr, "Error: Failed to marshal version info to JSON: %v\n", err)
	}

	fmt.Fprintf(w, "%s v%s\n", toolName, info.Version)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	if info.RuntimeLibrary != "" {
		fmt.Fprintf(w, "Runtime Library: %s\n", info.RuntimeLibrary)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
}

// ExitWithError prints an error message and exits with code 1
func ExitWithError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// ExitWithCode exits with the specified code and optional message
func ExitWithCode(code int, format string, args ...interface{}) {
	if format != "" {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
	os.Exit(code)
}

// ValidateArgs validates command line arguments
func ValidateArgs(args []string, minArgs int, usage string) error {
	if len(args) < minArgs {
		return fmt.Errorf("insufficient arguments\nUsage: %s", usage)
	}
	return nil
}
