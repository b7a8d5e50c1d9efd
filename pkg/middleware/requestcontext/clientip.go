package requestcontext

import (
	"context"
	"net/netip"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

type clientIPKey struct{}

type WithClientIPConfig struct {
	// TrustedHeader names a header set by the edge proxy with the client IP, e.g.
	// CF-Connecting-IP. It wins over X-Forwarded-For when it holds a valid IP.
	TrustedHeader string `mapstructure:"trusted_proxies_header"`

	// TrustedProxiesIP lists the CIDR ranges of every proxy in front of the service. The
	// client IP is the last X-Forwarded-For entry outside of these ranges.
	TrustedProxiesIP []string `mapstructure:"trusted_proxies_ip"`

	// EnableRejectMalformedRequest rejects with 403 proxied requests whose client IP can't be
	// trusted.
	EnableRejectMalformedRequest bool `mapstructure:"enable_reject_malformed_request"`
}

// GetClientIP returns the client IP set by WithClientIP, or "".
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// WithClientIP resolves the client IP with X-Forwarded-For spoofing protection. It panics
// on a malformed trusted proxy range.
func WithClientIP(config WithClientIPConfig) Option {
	proxies, err := parsePrefixes(config.TrustedProxiesIP)
	if err != nil {
		logger.Panic("Failed to parse trusted proxies", slogx.Error(err))
	}

	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		with := func(ip string) (context.Context, error) {
			return context.WithValue(ctx, clientIPKey{}, ip), nil
		}

		if config.TrustedHeader != "" {
			if ip, err := netip.ParseAddr(c.Get(config.TrustedHeader)); err == nil {
				return with(ip.String())
			}
		}

		forwarded := c.IPs()
		if len(forwarded) == 0 {
			return with(c.IP())
		}

		if len(proxies) > 0 {
			for i := len(forwarded) - 1; i >= 0; i-- {
				ip, err := netip.ParseAddr(forwarded[i])
				if err != nil || !trusted(proxies, ip) {
					return with(forwarded[i])
				}
			}
			return with(forwarded[0])
		}

		if config.EnableRejectMalformedRequest {
			logger.WarnContext(ctx, "Untrusted X-Forwarded-For, rejecting request",
				slogx.Event("requestcontext_ip_spoofing"),
				slogx.String("ip", c.IP()),
				slogx.Any("forwarded", forwarded),
			)
			return nil, rejectError{status: fiber.StatusForbidden, message: "not allowed to access"}
		}
		return with(forwarded[0])
	}
}

func parsePrefixes(ranges []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(ranges))
	for _, r := range ranges {
		prefix, err := netip.ParsePrefix(r)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid CIDR %q", r)
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes, nil
}

func trusted(proxies []netip.Prefix, ip netip.Addr) bool {
	ip = ip.Unmap()
	for _, p := range proxies {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}
