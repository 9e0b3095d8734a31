package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/nathfavour/pippin/pkg/brain"
)

func TestResponderCounts(t *testing.T) {
	rec := New(prometheus.NewRegistry())
	r := NewResponder(brain.Default(), rec, "web")

	r.SelectResponse("hello")
	r.SelectResponse("hey")
	r.SelectResponse("xyzzy")
	rec.RecordBlank("web")

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.replies.WithLabelValues("web", "greetings")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.replies.WithLabelValues("web", brain.CategoryFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.ignored.WithLabelValues("web")))
}

func TestNilRecorder(t *testing.T) {
	var rec *Recorder
	rec.RecordBlank("console")
	rec.RecordReply("console", brain.Reply{Category: "x"})

	r := NewResponder(brain.Default(), nil, "console")
	assert.NotEmpty(t, r.SelectResponse("hello"))
}
