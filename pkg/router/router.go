package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/env"
)

var BaseURL, CORSOrigin, BodyLimit string
var GZipLevel int
var CacheTTLSeconds int
var PairingRateInterval time.Duration
var PairingRateBurst int
var TrustedProxies []string
var ProxyHeader string
var bodyLimitBytes int

func init() {
	// HTTP_BASE_URL: empty by default (routes mounted at the root)
	BaseURL = normalizeBaseURL(env.GetEnvStringOrDefault("HTTP_BASE_URL", ""))

	// HTTP_CORS_ORIGIN: default "*"
	CORSOrigin = env.GetEnvStringOrDefault("HTTP_CORS_ORIGIN", "*")

	// HTTP_BODY_LIMIT_SIZE: default "1M", only small JSON bodies reach the bot
	BodyLimit = env.GetEnvStringOrDefault("HTTP_BODY_LIMIT_SIZE", "1M")
	bodyLimitBytes = parseBodyLimit(BodyLimit)

	GZipLevel = env.GetEnvIntOrDefault("HTTP_GZIP_LEVEL", 1)
	CacheTTLSeconds = env.GetEnvIntOrDefault("HTTP_CACHE_TTL_SECONDS", 5)

	// One pairing request per interval per client IP, with a small burst.
	PairingRateInterval = env.GetEnvDurationOrDefault("HTTP_PAIRING_RATE_INTERVAL", 10*time.Second)
	PairingRateBurst = env.GetEnvIntOrDefault("HTTP_PAIRING_RATE_BURST", 3)

	// HTTP_TRUSTED_PROXIES: comma separated IPs or CIDRs of reverse proxies
	// allowed to set HTTP_PROXY_HEADER. Empty means forwarded headers are ignored.
	TrustedProxies = splitList(env.GetEnvStringOrDefault("HTTP_TRUSTED_PROXIES", ""))
	ProxyHeader = env.GetEnvStringOrDefault("HTTP_PROXY_HEADER", "X-Forwarded-For")
}

func BodyLimitBytes() int {
	return bodyLimitBytes
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func normalizeBaseURL(raw string) string {
	raw = strings.Trim(strings.TrimSpace(raw), "/")
	if raw == "" {
		return ""
	}
	return "/" + raw
}

func parseBodyLimit(limit string) int {
	const defaultLimit = 1024 * 1024

	limit = strings.ToUpper(strings.TrimSpace(limit))
	if limit == "" {
		return defaultLimit
	}

	units := map[string]int{"K": 1 << 10, "M": 1 << 20, "G": 1 << 30}
	multiplier := 1
	if u, ok := units[limit[len(limit)-1:]]; ok {
		multiplier = u
		limit = limit[:len(limit)-1]
	}

	value, err := strconv.Atoi(strings.TrimSpace(limit))
	if err != nil || value <= 0 {
		return defaultLimit
	}
	return value * multiplier
}
