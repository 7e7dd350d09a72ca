package metrics

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
)

// ErrSealed is returned when adding a sample to an instance that has been published.
var ErrSealed = errors.New("metrics: instance is sealed")

// ErrLabelArity is returned when the number of label values does not match the family.
var ErrLabelArity = errors.New("metrics: label value count mismatch")

// Family is an immutable metric schema: name, help text and ordered label names.
type Family struct {
	name   string
	help   string
	labels []string
	desc   *prom.Desc
}

func newFamily(name, help string, labels ...string) *Family {
	return &Family{
		name:   name,
		help:   help,
		labels: labels,
		desc:   prom.NewDesc(name, help, labels, nil),
	}
}

// The two families exported by the collector.
var (
	IssuesTotal    = newFamily("jira_issues_total", "Jira issues, by project and status", "project", "status")
	ScrapeDuration = newFamily("jira_scrape_duration_seconds", "Duration of Jira API scrape")
)

// Families returns every registered family in exposition order.
func Families() []*Family {
	return []*Family{IssuesTotal, ScrapeDuration}
}

func (f *Family) Name() string { return f.name }
func (f *Family) Help() string { return f.help }

// Labels returns a copy of the label names.
func (f *Family) Labels() []string { return slices.Clone(f.labels) }

// Desc returns the prometheus descriptor for the family.
func (f *Family) Desc() *prom.Desc { return f.desc }

// New returns an empty, unsealed instance of f. Instances never share samples.
func (f *Family) New() *Instance {
	return &Instance{family: f}
}

// Sample is one labelled gauge value.
type Sample struct {
	LabelValues []string
	Value       float64
}

// Instance accumulates samples for one refresh. It becomes read-only once sealed.
type Instance struct {
	family *Family

	mu      sync.RWMutex
	samples []Sample
	sealed  bool
}

// Family returns the schema the instance was created from.
func (i *Instance) Family() *Family { return i.family }

// Add appends a sample. Label values are positional and must match the family's labels.
func (i *Instance) Add(value float64, labelValues ...string) error {
	if len(labelValues) != len(i.family.labels) {
		return fmt.Errorf("%w: %s expects %d, got %d", ErrLabelArity, i.family.name, len(i.family.labels), len(labelValues))
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.sealed {
		return ErrSealed
	}
	i.samples = append(i.samples, Sample{LabelValues: slices.Clone(labelValues), Value: value})
	return nil
}

// Seal freezes the instance. Sealing twice is harmless.
func (i *Instance) Seal() {
	i.mu.Lock()
	i.sealed = true
	i.mu.Unlock()
}

func (i *Instance) Sealed() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.sealed
}

// Len reports the number of samples.
func (i *Instance) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.samples)
}

// Samples returns a deep copy of the accumulated samples in insertion order.
func (i *Instance) Samples() []Sample {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]Sample, len(i.samples))
	for n, s := range i.samples {
		out[n] = Sample{LabelValues: slices.Clone(s.LabelValues), Value: s.Value}
	}
	return out
}

// Metrics converts the samples into constant gauges.
func (i *Instance) Metrics() []prom.Metric {
	samples := i.Samples()
	out := make([]prom.Metric, 0, len(samples))
	for _, s := range samples {
		out = append(out, prom.MustNewConstMetric(i.family.desc, prom.GaugeValue, s.Value, s.LabelValues...))
	}
	return out
}
