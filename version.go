package pclink

import "fmt"

// 版本信息，构建时可通过 -ldflags "-X" 覆盖
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// VersionInfo 返回一行版本描述
func VersionInfo() string {
	return fmt.Sprintf("pclink %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
