package gonetworkmanager

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Prober answers whether the outside world is reachable. It is consulted
// only when the active connection is already activated.
type Prober interface {
	Reachable(ctx context.Context) bool
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) bool

func (f ProberFunc) Reachable(ctx context.Context) bool { return f(ctx) }

// AlwaysReachable trusts the activation state alone.
var AlwaysReachable Prober = ProberFunc(func(context.Context) bool { return true })

// ServiceConnectivity asks NetworkManager for its own connectivity verdict
// and reports true only for full connectivity.
type ServiceConnectivity struct {
	bus Bus
}

func NewServiceConnectivity(bus Bus) *ServiceConnectivity {
	return &ServiceConnectivity{bus: bus}
}

func (p *ServiceConnectivity) Reachable(ctx context.Context) bool {
	state, err := property(ctx, object{p.bus, RootPath}, IfaceNetworkManager, propConnectivity, decodeUint32)
	return err == nil && state == ConnectivityFull
}

// HTTPProbe fetches a URL and treats any 2xx answer as reachable.
type HTTPProbe struct {
	client *resty.Client
	url    string
}

// DefaultProbeURL returns 204 when the internet is reachable.
const DefaultProbeURL = "http://connectivity-check.ubuntu.com/"

func NewHTTPProbe(url string, timeout time.Duration) *HTTPProbe {
	if url == "" {
		url = DefaultProbeURL
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRedirectPolicy(resty.NoRedirectPolicy())
	client.SetHeader("Cache-Control", "no-cache")
	return &HTTPProbe{client: client, url: url}
}

func (p *HTTPProbe) Reachable(ctx context.Context) bool {
	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		return false
	}
	return resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices
}
