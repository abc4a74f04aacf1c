package engine

// MetricProvider supplies a single named metric that the built-in extractors
// cannot derive from entity fields alone (e.g. supplier quality audits).
// Providers are injected at engine construction so a placeholder can be
// swapped for a real implementation without touching scorer or grader.
type MetricProvider interface {
	// Name returns the metric name the provider supplies.
	Name() string
	// Score returns the normalized metric (0-100) for the given entity ID.
	// Implemented reports whether the value is real or a documented default.
	Score(entityID string) (value float64, implemented bool)
}

// notImplementedProvider returns a fixed neutral value for a metric that has
// no real data source yet.
type notImplementedProvider struct {
	name    string
	neutral float64
}

// NotImplemented returns a provider that always yields the neutral value and
// reports itself as unimplemented. The neutral value keeps the metric from
// dominating the composite in either direction until real data arrives.
func NotImplemented(name string, neutral float64) MetricProvider {
	return &notImplementedProvider{name: name, neutral: Clamp(neutral, 0, 100)}
}

func (p *notImplementedProvider) Name() string { return p.name }

func (p *notImplementedProvider) Score(string) (float64, bool) {
	return p.neutral, false
}

// StaticProvider returns a provider with a fixed implemented value.
// Useful in tests and for tenant-tuned constants.
func StaticProvider(name string, value float64) MetricProvider {
	return &staticProvider{name: name, value: Clamp(value, 0, 100)}
}

type staticProvider struct {
	name  string
	value float64
}

func (p *staticProvider) Name() string { return p.name }

func (p *staticProvider) Score(string) (float64, bool) {
	return p.value, true
}
