// Package metrics counts replies per surface and category.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nathfavour/pippin/pkg/brain"
)

// Recorder wraps the reply counters. A nil *Recorder records nothing.
type Recorder struct {
	replies *prometheus.CounterVec
	ignored *prometheus.CounterVec
}

// New registers the counters on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pippin_replies_total",
			Help: "Replies sent, by surface and matched category.",
		}, []string{"surface", "category"}),
		ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pippin_blank_inputs_total",
			Help: "Blank submissions silently ignored, by surface.",
		}, []string{"surface"}),
	}
	reg.MustRegister(r.replies, r.ignored)
	return r
}

func (r *Recorder) RecordReply(surface string, reply brain.Reply) {
	if r == nil {
		return
	}
	r.replies.WithLabelValues(surface, reply.Category).Inc()
}

func (r *Recorder) RecordBlank(surface string) {
	if r == nil {
		return
	}
	r.ignored.WithLabelValues(surface).Inc()
}

// Responder matches through sel and counts every reply under surface.
type Responder struct {
	sel     *brain.Selector
	rec     *Recorder
	surface string
}

func NewResponder(sel *brain.Selector, rec *Recorder, surface string) *Responder {
	return &Responder{sel: sel, rec: rec, surface: surface}
}

func (r *Responder) Match(input string) brain.Reply {
	reply := r.sel.Match(input)
	r.rec.RecordReply(r.surface, reply)
	return reply
}

func (r *Responder) SelectResponse(input string) string {
	return r.Match(input).Text
}
