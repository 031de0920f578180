package metrics

import (
	"sync"
	"time"

	"github.com/scagent/scagent-web/internal/observability/statsd"
)

// Sample is one recorded metric emission.
type Sample struct {
	Name     string
	Count    int64
	Duration time.Duration
	Tags     map[string]string
}

// Recorder is an in-memory statsd.Sink for tests and local debugging.
type Recorder struct {
	mu      sync.Mutex
	samples []Sample
}

var _ statsd.Sink = (*Recorder)(nil)

func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.add(Sample{Name: name, Count: value, Tags: CloneTags(tags)})
}

func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.add(Sample{Name: name, Duration: value, Tags: CloneTags(tags)})
}

func (r *Recorder) add(s Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
}

// Samples returns the recorded samples named name, in emission order.
func (r *Recorder) Samples(name string) []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Sample
	for _, s := range r.samples {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
