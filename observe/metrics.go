// Package observe provides ready-made interceptors reporting container
// activity through Prometheus and zap.
package observe

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xraph/scout"
)

// Shapes of an accessor call.
const (
	ShapeEager    = "eager"
	ShapeLazy     = "lazy"
	ShapeProvider = "provider"
)

// Methods of an accessor call.
const (
	MethodGet       = "get"
	MethodOpt       = "opt"
	MethodCollect   = "collect"
	MethodAssociate = "associate"
)

// Metrics counts accessor calls by scope, method and shape. Only calls that
// complete are counted; failed eager resolutions never reach after hooks.
type Metrics struct {
	resolutions *prometheus.CounterVec
	absent      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scout",
				Name:      "resolutions_total",
				Help:      "Accessor calls by scope, method and shape",
			},
			[]string{"scope", "method", "shape"},
		),
		absent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scout",
				Name:      "absent_optional_total",
				Help:      "Optional object resolutions that yielded no value",
			},
			[]string{"scope"},
		),
	}

	if err := reg.Register(m.resolutions); err != nil {
		return nil, err
	}
	if err := reg.Register(m.absent); err != nil {
		return nil, err
	}

	return m, nil
}

// Resolutions returns the counter behind resolutions_total.
func (m *Metrics) Resolutions() *prometheus.CounterVec {
	return m.resolutions
}

// Absent returns the counter behind absent_optional_total.
func (m *Metrics) Absent() *prometheus.CounterVec {
	return m.absent
}

func (m *Metrics) observe(a scout.Accessor, method, shape string) {
	m.resolutions.WithLabelValues(a.Scope().Name(), method, shape).Inc()
}

func (m *Metrics) AfterGet(_ scout.Key, a scout.Accessor, result any) any {
	m.observe(a, MethodGet, ShapeEager)
	return result
}

func (m *Metrics) AfterOpt(_ scout.Key, a scout.Accessor, result any) any {
	m.observe(a, MethodOpt, ShapeEager)
	if result == nil {
		m.absent.WithLabelValues(a.Scope().Name()).Inc()
	}
	return result
}

func (m *Metrics) AfterCollect(_ scout.Key, a scout.Accessor, result []any) []any {
	m.observe(a, MethodCollect, ShapeEager)
	return result
}

func (m *Metrics) AfterAssociate(_ scout.Key, a scout.Accessor, result map[any]any) map[any]any {
	m.observe(a, MethodAssociate, ShapeEager)
	return result
}

func (m *Metrics) AfterGetLazy(_ scout.Key, a scout.Accessor, result *scout.Lazy[any]) *scout.Lazy[any] {
	m.observe(a, MethodGet, ShapeLazy)
	return result
}

func (m *Metrics) AfterOptLazy(_ scout.Key, a scout.Accessor, result *scout.Lazy[any]) *scout.Lazy[any] {
	m.observe(a, MethodOpt, ShapeLazy)
	return result
}

func (m *Metrics) AfterCollectLazy(_ scout.Key, a scout.Accessor, result *scout.Lazy[[]any]) *scout.Lazy[[]any] {
	m.observe(a, MethodCollect, ShapeLazy)
	return result
}

func (m *Metrics) AfterAssociateLazy(_ scout.Key, a scout.Accessor, result *scout.Lazy[map[any]any]) *scout.Lazy[map[any]any] {
	m.observe(a, MethodAssociate, ShapeLazy)
	return result
}

func (m *Metrics) AfterGetProvider(_ scout.Key, a scout.Accessor, result *scout.Provider[any]) *scout.Provider[any] {
	m.observe(a, MethodGet, ShapeProvider)
	return result
}

func (m *Metrics) AfterOptProvider(_ scout.Key, a scout.Accessor, result *scout.Provider[any]) *scout.Provider[any] {
	m.observe(a, MethodOpt, ShapeProvider)
	return result
}

func (m *Metrics) AfterCollectProvider(_ scout.Key, a scout.Accessor, result *scout.Provider[[]any]) *scout.Provider[[]any] {
	m.observe(a, MethodCollect, ShapeProvider)
	return result
}

func (m *Metrics) AfterAssociateProvider(_ scout.Key, a scout.Accessor, result *scout.Provider[map[any]any]) *scout.Provider[map[any]any] {
	m.observe(a, MethodAssociate, ShapeProvider)
	return result
}

var (
	_ scout.AfterInterceptor         = (*Metrics)(nil)
	_ scout.AfterLazyInterceptor     = (*Metrics)(nil)
	_ scout.AfterProviderInterceptor = (*Metrics)(nil)
)
