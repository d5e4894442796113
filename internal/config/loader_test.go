package config_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/securescore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "secure-score-history.json")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SECURESCORE_HISTORY_PATH", "/var/lib/securescore/history.json")
			_ = os.Setenv("SECURESCORE_PRETTY", "true")
			_ = os.Setenv("SECURESCORE_LOCK", "false")
			_ = os.Setenv("SECURESCORE_FETCH_TIMEOUT", "15s")
			_ = os.Setenv("SECURESCORE_SUBSCRIPTION_ID", "00000000-1111-2222-3333-444444444444")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "/var/lib/securescore/history.json")
				convey.So(cfg.Pretty, convey.ShouldBeTrue)
				convey.So(cfg.Lock, convey.ShouldBeFalse)
				convey.So(cfg.FetchTimeout, convey.ShouldEqual, 15*time.Second)
				convey.So(cfg.SubscriptionID, convey.ShouldEqual, "00000000-1111-2222-3333-444444444444")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# history settings
history_path: "scores.json"
pretty: true
utc: true
source: file
reading_path: "reading.json"  # dropped by the exporter
log_format: json
`
			tmpFile := createTempConfigFile(t, yamlContent)

			convey.Convey("Then an explicit path is honoured", func() {
				cfg, err := config.Load(ctx, tmpFile)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "scores.json")
				convey.So(cfg.Pretty, convey.ShouldBeTrue)
				convey.So(cfg.UTC, convey.ShouldBeTrue)
				convey.So(cfg.Source, convey.ShouldEqual, config.SourceFile)
				convey.So(cfg.ReadingPath, convey.ShouldEqual, "reading.json")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.ScoreName, convey.ShouldEqual, "ascScore") // From defaults
			})

			convey.Convey("Then SECURESCORE_CONFIG is used when no path is given", func() {
				_ = os.Setenv("SECURESCORE_CONFIG", tmpFile)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx, "")
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "scores.json")
			})

			convey.Convey("Then environment variables override file values", func() {
				_ = os.Setenv("SECURESCORE_HISTORY_PATH", "env.json")
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx, tmpFile)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "env.json") // Overridden by env
				convey.So(cfg.Pretty, convey.ShouldBeTrue)                 // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid values", func() {
			cases := []struct {
				name, key, value string
			}{
				{"empty history path", "SECURESCORE_HISTORY_PATH", ""},
				{"unknown source", "SECURESCORE_SOURCE", "portal"},
				{"unknown log format", "SECURESCORE_LOG_FORMAT", "xml"},
				{"malformed subscription", "SECURESCORE_SUBSCRIPTION_ID", "not-a-guid"},
				{"zero timeout", "SECURESCORE_FETCH_TIMEOUT", "0s"},
				{"file source without reading", "SECURESCORE_SOURCE", "file"},
			}
			for _, tc := range cases {
				convey.Convey("Then it should reject "+tc.name, func() {
					_ = os.Setenv(tc.key, tc.value)
					defer clearConfigEnvVars()

					cfg, err := config.Load(ctx, "")
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(cfg, convey.ShouldBeNil)
				})
			}
		})

		convey.Convey("When loading config with a malformed duration", func() {
			_ = os.Setenv("SECURESCORE_FETCH_TIMEOUT", "soon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := config.Load(cctx, "")

			convey.Convey("Then loading is refused", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, config.EnvPrefix) {
			_ = os.Unsetenv(key)
		}
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "securescore-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
