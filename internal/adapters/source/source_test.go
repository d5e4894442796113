package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/securescore/internal/config"
	"github.com/okian/securescore/internal/domain/record"
)

const testSubscription = "00000000-1111-2222-3333-444444444444"

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
}

func fakeRunner(out string, err error, calls *[][]string) Runner {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		if calls != nil {
			*calls = append(*calls, append([]string{name}, args...))
		}
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
}

func TestCommandSource(t *testing.T) {
	ctx := context.Background()

	Convey("Given an invalid subscription id", t, func() {
		_, err := NewCommandSource("not-a-guid")

		Convey("Then construction fails", func() {
			So(errors.Is(err, ErrInvalidSubscription), ShouldBeTrue)
		})
	})

	Convey("Given a CLI returning the flattened resource", t, func() {
		var calls [][]string
		out := `{
			"id": "/subscriptions/aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee/providers/Microsoft.Security/secureScores/ascScore",
			"name": "ascScore",
			"score": {"current": 40, "max": 50, "percentage": 0.8}
		}`
		src, err := NewCommandSource(testSubscription,
			WithBinary("/usr/bin/az"),
			WithRunner(fakeRunner(out, nil, &calls)),
			WithCommandClock(fixedClock),
		)
		So(err, ShouldBeNil)

		Convey("When fetching", func() {
			fields, err := src.Fetch(ctx)
			So(err, ShouldBeNil)
			rec := fields.Record()

			Convey("Then the CLI is invoked with the show arguments", func() {
				So(calls, ShouldHaveLength, 1)
				So(calls[0][0], ShouldEqual, "/usr/bin/az")
				So(calls[0][1:], ShouldResemble, []string{
					"security", "secure-scores", "show",
					"--name", "ascScore",
					"--subscription", testSubscription,
					"--output", "json",
				})
			})

			Convey("Then the record is derived from the response", func() {
				So(rec.CurrentScore, ShouldEqual, 40)
				So(rec.MaxScore, ShouldEqual, 50)
				So(rec.ScorePercentage, ShouldEqual, 80)
				So(rec.ScoreName, ShouldEqual, "ascScore")
				So(rec.SubscriptionID, ShouldEqual, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
				So(rec.Timestamp, ShouldEqual, "2024-03-01 09:30:00")
			})
		})
	})

	Convey("Given a CLI returning the REST shape without an id", t, func() {
		out := `{"properties": {"score": {"current": 12.5, "max": 25}}}`
		src, err := NewCommandSource(testSubscription,
			WithScoreName("customScore"),
			WithRunner(fakeRunner(out, nil, nil)),
			WithCommandClock(fixedClock),
		)
		So(err, ShouldBeNil)

		Convey("Then configured values fill the gaps", func() {
			fields, err := src.Fetch(ctx)
			So(err, ShouldBeNil)
			rec := fields.Record()
			So(rec.ScoreName, ShouldEqual, "customScore")
			So(rec.SubscriptionID, ShouldEqual, testSubscription)
			So(rec.ScorePercentage, ShouldEqual, 50)
		})
	})

	Convey("Given failing or unusable CLI output", t, func() {
		cases := []struct {
			name string
			run  Runner
		}{
			{"process error", fakeRunner("", errors.New("exit status 1: please run az login"), nil)},
			{"not json", fakeRunner("ERROR: oops", nil, nil)},
			{"no score values", fakeRunner(`{"name":"ascScore"}`, nil, nil)},
			{"zero max", fakeRunner(`{"score":{"current":0,"max":0}}`, nil, nil)},
		}
		for _, tc := range cases {
			src, err := NewCommandSource(testSubscription, WithRunner(tc.run))
			So(err, ShouldBeNil)

			Convey("Then fetching reports a source error for "+tc.name, func() {
				_, err := src.Fetch(ctx)
				So(errors.Is(err, ErrSource), ShouldBeTrue)
			})
		}
	})

	Convey("Given a slow CLI", t, func() {
		slow := func(ctx context.Context, _ string, _ ...string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		src, err := NewCommandSource(testSubscription, WithRunner(slow), WithTimeout(10*time.Millisecond))
		So(err, ShouldBeNil)

		Convey("Then the timeout bounds the call", func() {
			_, err := src.Fetch(ctx)
			So(errors.Is(err, ErrSource), ShouldBeTrue)
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
		})
	})
}

func TestSubscriptionFromID(t *testing.T) {
	Convey("Given ARM resource ids", t, func() {
		So(subscriptionFromID("/subscriptions/abc/providers/x"), ShouldEqual, "abc")
		So(subscriptionFromID("/SUBSCRIPTIONS/abc"), ShouldEqual, "abc")
		So(subscriptionFromID("/subscriptions"), ShouldEqual, "")
		So(subscriptionFromID(""), ShouldEqual, "")
	})
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()

	Convey("Given a reading file", t, func() {
		path := filepath.Join(t.TempDir(), "reading.json")
		So(os.WriteFile(path, []byte(`{"current":85,"max":100,"name":"ascScore","subscriptionId":"sub-1"}`), 0o600), ShouldBeNil)
		src := NewFileSource(path, WithFileClock(fixedClock))

		Convey("Then the record is built from it", func() {
			fields, err := src.Fetch(ctx)
			So(err, ShouldBeNil)
			rec := fields.Record()
			So(rec.ScorePercentage, ShouldEqual, 85)
			So(rec.SubscriptionID, ShouldEqual, "sub-1")
			So(rec.Timestamp, ShouldEqual, "2024-03-01 09:30:00")
		})
	})

	Convey("Given a missing reading file", t, func() {
		src := NewFileSource(filepath.Join(t.TempDir(), "missing.json"))

		Convey("Then a source error is returned", func() {
			_, err := src.Fetch(ctx)
			So(errors.Is(err, ErrSource), ShouldBeTrue)
		})
	})

	Convey("Given a reading without a name", t, func() {
		path := filepath.Join(t.TempDir(), "reading.json")
		So(os.WriteFile(path, []byte(`{"current":1,"max":2}`), 0o600), ShouldBeNil)

		Convey("Then the record check rejects it", func() {
			_, err := NewFileSource(path).Fetch(ctx)
			So(errors.Is(err, ErrSource), ShouldBeTrue)
			So(errors.Is(err, record.ErrInvalidRecord), ShouldBeTrue)
		})
	})
}

func TestStatic(t *testing.T) {
	Convey("Given a static source", t, func() {
		rec, err := record.New(80, 100, "ascScore", "sub", fixedClock())
		So(err, ShouldBeNil)
		src := NewStatic(rec)

		Convey("Then it returns the record", func() {
			fields, err := src.Fetch(context.Background())
			So(err, ShouldBeNil)
			So(fields.Record(), ShouldResemble, rec)
		})

		Convey("Then a cancelled context is reported", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := src.Fetch(ctx)
			So(errors.Is(err, ErrSource), ShouldBeTrue)
		})
	})
}

func TestFromConfig(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := config.New()

		Convey("When no subscription is set", func() {
			_, err := FromConfig(cfg)

			Convey("Then the command source cannot be built", func() {
				So(errors.Is(err, ErrInvalidSubscription), ShouldBeTrue)
			})
		})

		Convey("When a subscription is set", func() {
			cfg.SubscriptionID = testSubscription
			cfg.ScoreName = "customScore"
			src, err := FromConfig(cfg)

			Convey("Then a command source is returned", func() {
				So(err, ShouldBeNil)
				cmd, ok := src.(*CommandSource)
				So(ok, ShouldBeTrue)
				So(cmd.Args(), ShouldContain, "customScore")
			})
		})

		Convey("When the file source is selected", func() {
			cfg.Source = config.SourceFile
			cfg.ReadingPath = "reading.json"
			src, err := FromConfig(cfg)

			Convey("Then a file source is returned", func() {
				So(err, ShouldBeNil)
				_, ok := src.(*FileSource)
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When an unknown source is selected", func() {
			cfg.Source = "portal"
			_, err := FromConfig(cfg)

			Convey("Then ErrUnknownSource is returned", func() {
				So(errors.Is(err, ErrUnknownSource), ShouldBeTrue)
			})
		})
	})
}
