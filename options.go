package pageview

import "github.com/gogpu/pageview/cache"

// Option configures a Session during creation.
//
// Example:
//
//	s := pageview.NewSession(doc, 144, pageview.WithCacheSize(5))
type Option func(*options)

// options holds optional configuration for Session creation.
type options struct {
	cacheSize int
}

// defaultOptions returns the default session options.
func defaultOptions() options {
	return options{
		cacheSize: cache.DefaultCapacity,
	}
}

// WithCacheSize sets the number of pages kept loaded. Values below 1 keep
// the default of cache.DefaultCapacity.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}
