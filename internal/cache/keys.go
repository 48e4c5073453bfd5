package cache

import (
	"strings"
	"time"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/config"
)

// Namespace is the Redis key prefix for the sailfish application.
const Namespace = "sailfish"

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLShort  TTLClass = "short"
	TTLMedium TTLClass = "medium"
	TTLLong   TTLClass = "long"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, 10*time.Second),
		Medium: durationOrDefault(cfg.Medium, time.Minute),
		Long:   durationOrDefault(cfg.Long, 5*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLShort:
		return t.Short
	case TTLMedium:
		return t.Medium
	case TTLLong:
		return t.Long
	default:
		return 0
	}
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// PerformanceKey caches a rendered trade position performance report.
func PerformanceKey(provider, tradingCategory, period, symbol string) string {
	return formatKey("performance", provider, tradingCategory, period, symbol)
}

// PerformanceTTL returns the TTL for performance report payloads.
func PerformanceTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// WalletBalanceKey caches the latest wallet balance snapshot.
func WalletBalanceKey(provider, walletType, currency string) string {
	return formatKey("wallet", provider, walletType, currency)
}

// WalletBalanceTTL returns the TTL for wallet balance payloads.
func WalletBalanceTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}
