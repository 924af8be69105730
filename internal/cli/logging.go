package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"coinsignals-api/internal/config"
	"coinsignals-api/pkg/confkit"
	"coinsignals-api/pkg/market"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Listen: %s:%d", cfg.Host, cfg.Port),
		fmt.Sprintf("Cache TTL (realtime/historical/listing): %ds / %ds / %ds",
			cfg.Cache.Realtime, cfg.Cache.Historical, cfg.Cache.Listing),
		fmt.Sprintf("Cache capacity: %d", cfg.Cache.Capacity),
		warmupLine(cfg.Warmup),
		sectionLine("Market config", cfg.Market),
	}
	if mkt := cfg.Market.Value; mkt != nil {
		lines = append(lines, marketLines(mkt)...)
	}
	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func warmupLine(w config.WarmupConf) string {
	if strings.TrimSpace(w.Schedule) == "" {
		return "Warmup: disabled"
	}
	return fmt.Sprintf("Warmup: %q symbols=%s days=%d", w.Schedule, strings.Join(w.Symbols, ","), w.Days)
}

func marketLines(cfg *market.Config) []string {
	orch := cfg.Orchestrator()
	lines := []string{
		fmt.Sprintf("Provider chain: %s", strings.Join(cfg.ChainOrder(), " > ")),
		fmt.Sprintf("Fetch policy: timeout=%s retries=%d backoff=%s", orch.Timeout(), orch.Retries(), orch.BackoffBase()),
	}
	for _, name := range cfg.ChainOrder() {
		p := cfg.Providers[name]
		lines = append(lines, fmt.Sprintf("Provider %s: type=%s api_key=%s", name, p.Type, presence(p.APIKey != "")))
	}
	return lines
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
