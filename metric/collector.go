// Package metric exports connection metrics to Prometheus.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arloliu/go-meca/control"
	"github.com/arloliu/go-meca/feedback"
)

const namespace = "meca"

var (
	commandsSentDesc = newDesc("control", "commands_sent_total", "Number of commands sent on the control connection.")
	eventsRecvDesc   = newDesc("control", "events_received_total", "Number of events received on the control connection.")
	retriesDesc      = newDesc("control", "retries_total", "Number of second waits for a missing response.")
	robotErrorsDesc  = newDesc("control", "robot_errors_total", "Number of commands failed by a robot error.")
	notFoundDesc     = newDesc("control", "responses_not_found_total", "Number of commands without a response after the retry.")
	ctlFramingDesc   = newDesc("control", "framing_errors_total", "Number of malformed frames received on the control connection.")
	eventCodesDesc   = newDesc("control", "events_by_code_total", "Number of events received on the control connection per code.", "code")

	pollsDesc      = newDesc("feedback", "polls_total", "Number of monitoring polls.")
	framesRecvDesc = newDesc("feedback", "frames_received_total", "Number of monitoring frames decoded.")
	fbFramingDesc  = newDesc("feedback", "framing_errors_total", "Number of monitoring polls that hit a malformed frame.")
)

func newDesc(subsystem, name, help string, labels ...string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, name),
		help,
		append([]string{"robot"}, labels...),
		nil,
	)
}

// Collector is a prometheus.Collector reading the metrics of one robot.
// Either side may be nil.
type Collector struct {
	robot    string
	control  *control.ConnectionMetrics
	feedback *feedback.ConnectionMetrics
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector labelling every sample with robot.
func NewCollector(robot string, ctl *control.ConnectionMetrics, fb *feedback.ConnectionMetrics) *Collector {
	return &Collector{robot: robot, control: ctl, feedback: fb}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	if c.control != nil {
		for _, d := range []*prometheus.Desc{commandsSentDesc, eventsRecvDesc, retriesDesc, robotErrorsDesc, notFoundDesc, ctlFramingDesc, eventCodesDesc} {
			ch <- d
		}
	}

	if c.feedback != nil {
		for _, d := range []*prometheus.Desc{pollsDesc, framesRecvDesc, fbFramingDesc} {
			ch <- d
		}
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if m := c.control; m != nil {
		c.counter(ch, commandsSentDesc, m.CommandSendCount.Load())
		c.counter(ch, eventsRecvDesc, m.EventRecvCount.Load())
		c.counter(ch, retriesDesc, m.RetryCount.Load())
		c.counter(ch, robotErrorsDesc, m.RobotErrCount.Load())
		c.counter(ch, notFoundDesc, m.NotFoundCount.Load())
		c.counter(ch, ctlFramingDesc, m.FramingErrCount.Load())

		m.RangeEventCodes(func(code string, count uint64) bool {
			c.counter(ch, eventCodesDesc, count, code)
			return true
		})
	}

	if m := c.feedback; m != nil {
		c.counter(ch, pollsDesc, m.PollCount.Load())
		c.counter(ch, framesRecvDesc, m.FrameRecvCount.Load())
		c.counter(ch, fbFramingDesc, m.FramingErrCount.Load())
	}
}

func (c *Collector) counter(ch chan<- prometheus.Metric, desc *prometheus.Desc, v uint64, labels ...string) {
	ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), append([]string{c.robot}, labels...)...)
}

// Handler returns an HTTP handler exposing the collectors on a dedicated
// registry.
func Handler(collectors ...prometheus.Collector) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}
