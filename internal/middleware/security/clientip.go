package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ProxyResolver finds the real client address of a request. Forwarding
// headers are only honoured when the direct peer is a trusted proxy.
type ProxyResolver struct {
	trustedProxies []*net.IPNet
}

// NewProxyResolver trusts loopback and private networks
func NewProxyResolver() *ProxyResolver {
	r := &ProxyResolver{}
	for _, cidr := range []string{"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "::1/128"} {
		if err := r.AddTrustedProxy(cidr); err != nil {
			panic(err)
		}
	}
	return r
}

// AddTrustedProxy adds a trusted proxy network
func (p *ProxyResolver) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	p.trustedProxies = append(p.trustedProxies, network)
	return nil
}

// ClientIP extracts the client IP, validating forwarded headers
func (p *ProxyResolver) ClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsed := net.ParseIP(directIP)
	if parsed == nil || !p.isTrusted(parsed) {
		return directIP
	}

	// First hop of X-Forwarded-For, then nginx's X-Real-IP
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" && net.ParseIP(xri) != nil {
		return xri
	}
	return directIP
}

func (p *ProxyResolver) isTrusted(ip net.IP) bool {
	for _, network := range p.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
