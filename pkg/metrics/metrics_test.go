package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordIngest("success", 12)

			Convey("Then metrics carry the namespace and constant labels", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_ingest_total" {
						found = true
						labels := f.GetMetric()[0].GetLabel()
						names := make([]string, 0, len(labels))
						for _, l := range labels {
							names = append(names, l.GetName())
						}
						So(names, ShouldContain, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))

		Convey("When ingestion outcomes are recorded", func() {
			m.RecordIngest("success", 5)
			m.RecordIngest("success", 7)
			m.RecordIngest("parse_error", 1)
			m.RecordStageError("parse", "parse_error")
			m.RecordSkippedElement("string")

			Convey("Then counters reflect them per label", func() {
				So(testutil.ToFloat64(m.ingestTotal.WithLabelValues("success")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.ingestTotal.WithLabelValues("parse_error")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.stageErrors.WithLabelValues("parse", "parse_error")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.skippedElements.WithLabelValues("string")), ShouldEqual, 1)
			})
		})

		Convey("When score gauges are updated", func() {
			m.UpdateScore(42.5, 50, 85)
			m.UpdateDelta(-1.5)
			m.UpdateHistoryRecords(9)
			m.RecordSuccess(time.Unix(1700000000, 0))

			Convey("Then gauges hold the latest values", func() {
				So(testutil.ToFloat64(m.scoreCurrent), ShouldEqual, 42.5)
				So(testutil.ToFloat64(m.scoreMax), ShouldEqual, 50)
				So(testutil.ToFloat64(m.scorePercentage), ShouldEqual, 85)
				So(testutil.ToFloat64(m.scoreDelta), ShouldEqual, -1.5)
				So(testutil.ToFloat64(m.historyRecords), ShouldEqual, 9)
				So(testutil.ToFloat64(m.lastSuccessUnix), ShouldEqual, 1700000000)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))
		m.UpdateScore(1, 2, 50)
		m.RecordIngest("success", 1)

		Convey("Then nothing is recorded", func() {
			So(testutil.ToFloat64(m.scoreCurrent), ShouldEqual, 0)
			So(testutil.ToFloat64(m.ingestTotal.WithLabelValues("success")), ShouldEqual, 0)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		So(func() {
			RecordIngest("success", 1)
			RecordStageError("fetch", "source_error")
			RecordSkippedElement("number")
			RecordSuccess(time.Now())
			UpdateHistoryRecords(1)
			UpdateScore(80, 100, 80)
			UpdateDelta(5)
			UpdateStorageBytes(128)
			RecordHTTPRequest("history", "GET", "200", 3)
			RecordErrorByEndpoint("history", "GET", "not_found")
		}, ShouldNotPanic)

		Convey("When writing a textfile", func() {
			path := filepath.Join(t.TempDir(), "securescore.prom")
			err := WriteTextfile(path)

			Convey("Then it contains the exposition text", func() {
				So(err, ShouldBeNil)
				raw, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(strings.Contains(string(raw), "securescore_history_score_current 80"), ShouldBeTrue)
			})
		})

		Convey("When the textfile directory does not exist", func() {
			err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEnableRuntimeMetrics(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When runtime metrics are enabled twice", func() {
			So(EnableRuntimeMetrics, ShouldNotPanic)
			So(EnableRuntimeMetrics, ShouldNotPanic)

			Convey("Then go_goroutines is gathered", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				found := false
				for _, mf := range families {
					if mf.GetName() == "go_goroutines" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
