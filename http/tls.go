package http

import (
	"context"
	"fmt"
	"net"
	"time"

	utls "github.com/refraction-networking/utls"
)

// dialFunc matches http.Transport.DialTLSContext.
type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// newChromeTLSDialer returns a dialer whose ClientHello mimics Chrome.
// base may be nil; its ServerName defaults to the dialed host. ALPN is
// pinned to http/1.1 because http.Transport cannot speak HTTP/2 over a
// utls connection.
func newChromeTLSDialer(base *utls.Config) dialFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialChromeTLS(ctx, network, addr, base)
	}
}

func dialChromeTLS(ctx context.Context, network, addr string, base *utls.Config) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	spec, err := chromeHTTP1Spec()
	if err != nil {
		conn.Close()
		return nil, err
	}

	cfg := &utls.Config{}
	if base != nil {
		cfg = base.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName, _, _ = net.SplitHostPort(addr)
	}
	tlsConn := utls.UClient(conn, cfg, utls.HelloCustom)
	if err := tlsConn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying TLS fingerprint: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

// chromeHTTP1Spec returns a fresh Chrome ClientHello spec with ALPN
// restricted to http/1.1. A new spec is built per connection since
// ApplyPreset takes ownership of its extensions.
func chromeHTTP1Spec() (utls.ClientHelloSpec, error) {
	spec, err := utls.UTLSIdToSpec(utls.HelloChrome_Auto)
	if err != nil {
		return utls.ClientHelloSpec{}, fmt.Errorf("building TLS fingerprint: %w", err)
	}
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			break
		}
	}
	return spec, nil
}
