package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider owns a dedicated Prometheus registry for the process, kept
// separate from the default global registry so tests can construct an
// isolated Provider per case without collector-already-registered panics.
type Provider struct {
	registry *prometheus.Registry
}

// NewProvider creates a fresh metrics provider with its own registry.
func NewProvider() *Provider {
	return &Provider{registry: prometheus.NewRegistry()}
}

// Registry returns the Prometheus registerer for constructing
// BusinessMetrics and any other collectors.
func (p *Provider) Registry() prometheus.Registerer {
	return p.registry
}

// Handler returns an HTTP handler serving metrics in Prometheus
// exposition format. The core never starts a server itself (no HTTP
// surface in scope); an embedding operator mounts this handler on their
// own mux if they want scraping.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
