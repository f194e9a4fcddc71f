package flags

import "github.com/Jbmanllr/rental-catalog/config"

// Feature keys known to the catalog.
const (
	SalesChannels = "sales_channels"
)

// Router answers whether an optional feature is switched on.
type Router interface {
	IsEnabled(key string) bool
}

type configRouter struct {
	features map[string]bool
}

// NewRouter builds a Router from the loaded configuration.
func NewRouter(cfg *config.FeatureConfig) Router {
	return &configRouter{
		features: map[string]bool{
			SalesChannels: cfg.SalesChannels,
		},
	}
}

func (r *configRouter) IsEnabled(key string) bool {
	return r.features[key]
}

// Static is a fixed-value Router for tests.
type Static map[string]bool

func (s Static) IsEnabled(key string) bool {
	return s[key]
}
