package bootstrap

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/initkit/component"
)

// Summary renders the startup report of an application.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a new bootstrap summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Render writes the summary with the registry's dependency levels and
// live component health.
func (s *Summary) Render(w io.Writer, registry *component.Registry) {
	fmt.Fprintf(w, "\n🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	if registry == nil {
		fmt.Fprintf(w, "   └── No components registered\n\n")
		return
	}
	infos := registry.Describe()
	if len(infos) == 0 {
		fmt.Fprintf(w, "   └── No components registered\n\n")
		return
	}

	levels := registry.Levels()
	if len(levels) > 0 {
		fmt.Fprintf(w, "🧭 Initialization order\n")
		for i, level := range levels {
			fmt.Fprintf(w, "   %s level %d: %s\n", treePrefix(i, len(levels)), i, strings.Join(level, ", "))
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "📦 Components\n")
	healthy := 0
	for i, info := range infos {
		name := info.Name
		details := ""
		if d := info.Description; d != nil {
			if d.Name != "" {
				name = d.Name
			}
			if d.Type != "" {
				details = " [" + d.Type + "]"
			}
			if d.Details != "" {
				details += " " + d.Details
			}
		}
		msg := ""
		if info.Health.Message != "" {
			msg = " — " + info.Health.Message
		}
		fmt.Fprintf(w, "   %s %s %s%s%s\n", treePrefix(i, len(infos)), healthStatusIcon(info.Health.Status), name, details, msg)
		for j, dep := range info.Dependencies {
			branch := "│  "
			if i == len(infos)-1 {
				branch = "   "
			}
			fmt.Fprintf(w, "   %s %s 🔗 %s\n", branch, treePrefix(j, len(info.Dependencies)), dep)
		}
		if info.Health.Status == component.StatusHealthy {
			healthy++
		}
	}
	fmt.Fprintf(w, "\n")

	total := len(infos)
	if healthy == total {
		fmt.Fprintf(w, "✅ All components healthy (%d/%d)\n\n", healthy, total)
	} else {
		fmt.Fprintf(w, "⚠️  Some components have issues (%d/%d healthy)\n\n", healthy, total)
	}
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
