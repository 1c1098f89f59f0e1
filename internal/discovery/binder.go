package discovery

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/fluxgrid/fluxgrid/internal/apperr"
	"github.com/fluxgrid/fluxgrid/internal/config"
)

// TCPAttributePrefix is the attribute namespace of the optional tcp-layer
// discovery overrides.
const TCPAttributePrefix = "tcp."

// tcpSetters maps the lower-cased leaf segment of a tcp.* attribute name
// onto the discovery.Config field it tunes. An explicit table instead of
// reflective setter lookup: the valid key set is closed and checked here.
var tcpSetters = map[string]func(*Config, any) error{
	"acktimeout":     durationSetter(func(c *Config, ms int64) { c.AckTimeoutMillis = ms }),
	"sockettimeout":  durationSetter(func(c *Config, ms int64) { c.SocketTimeoutMillis = ms }),
	"networktimeout": durationSetter(func(c *Config, ms int64) { c.NetworkTimeoutMillis = ms }),
	"jointimeout":    durationSetter(func(c *Config, ms int64) { c.JoinTimeoutMillis = ms }),
	"reconnectcount": intSetter(func(c *Config, n int) { c.ReconnectCount = n }),
	"localport":      intSetter(func(c *Config, n int) { c.LocalPort = n }),
	"localportrange": intSetter(func(c *Config, n int) { c.LocalPortRange = n }),
	"localaddress": func(c *Config, v any) error {
		s, err := cast.ToStringE(v)
		if err != nil {
			return err
		}
		c.LocalAddress = s
		return nil
	},
}

func durationSetter(assign func(*Config, int64)) func(*Config, any) error {
	return func(c *Config, v any) error {
		d, err := config.CoerceDuration(v)
		if err != nil {
			return err
		}
		assign(c, d.Milliseconds())
		return nil
	}
}

func intSetter(assign func(*Config, int)) func(*Config, any) error {
	return func(c *Config, v any) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		assign(c, n)
		return nil
	}
}

// bindTCPAttributes applies every configured tcp.* attribute to cfg. An
// attribute whose leaf does not name a known tunable fails the build: a
// typo in an advanced tuning key must surface immediately, not produce a
// misconfigured cluster.
func bindTCPAttributes(cfg *Config, reader config.Reader) error {
	for _, name := range reader.AttributeNames(TCPAttributePrefix) {
		leaf := name[strings.LastIndex(name, ".")+1:]
		setter, ok := tcpSetters[strings.ToLower(leaf)]
		if !ok {
			return apperr.ForAttribute(name, "unknown discovery tuning attribute")
		}
		if err := setter(cfg, reader.Get(name)); err != nil {
			return apperr.WrapAttribute(name, "invalid discovery tuning value", err)
		}
	}
	return nil
}
