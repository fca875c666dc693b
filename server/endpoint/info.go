package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/memoscribe/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// ServiceInfo identifies the running service.
type ServiceInfo struct {
	Name        string
	Title       string
	Version     string
	Environment string
}

// Info returns a handler that reports service and build information. The
// configured version wins over the build-time one.
func Info(info ServiceInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.GetVersionInfo()
		ver := info.Version
		if ver == "" {
			ver = v.Version
		}
		c.JSON(http.StatusOK, gin.H{
			"service":     info.Name,
			"title":       info.Title,
			"version":     ver,
			"environment": info.Environment,
			"git_commit":  v.GitCommit,
			"build_time":  v.BuildTime,
			"go_version":  v.GoVersion,
			"uptime":      time.Since(startTime).Round(time.Second).String(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
