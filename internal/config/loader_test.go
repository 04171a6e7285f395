package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/revlens/revlens/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no configuration sources", t, func() {
		Convey("Then the defaults apply", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.MinReviews, ShouldEqual, 3)
			So(cfg.TopK, ShouldEqual, 200)
			So(cfg.QueueSize, ShouldEqual, 100_000)
			So(cfg.RebuildIntervalMS, ShouldEqual, 2000)
			So(cfg.MaxViewLimit, ShouldEqual, 200)
			So(cfg.DataFile, ShouldBeEmpty)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REVLENS_ADDR", ":8123")
	t.Setenv("REVLENS_MIN_REVIEWS", "5")
	t.Setenv("REVLENS_DATA_FILE", "/data/reviews.ndjson")

	Convey("Given environment overrides", t, func() {
		Convey("Then env values win over defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8123")
			So(cfg.MinReviews, ShouldEqual, 5)
			So(cfg.DataFile, ShouldEqual, "/data/reviews.ndjson")
			So(cfg.TopK, ShouldEqual, 200) // untouched default
		})
	})
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7001\"\ntop_k: 25\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REVLENS_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		Convey("Then file values layer over defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7001")
			So(cfg.TopK, ShouldEqual, 25)
		})
	})
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("top_k: 25\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REVLENS_CONFIG", path)
	t.Setenv("REVLENS_TOP_K", "99")

	Convey("Given both a config file and an env override", t, func() {
		Convey("Then the env value wins", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.TopK, ShouldEqual, 99)
		})
	})
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("REVLENS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	Convey("Given a config file that does not exist", t, func() {
		Convey("Then loading fails with the load sentinel", func() {
			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("REVLENS_MIN_REVIEWS", "0")

	Convey("Given a non-positive min_reviews", t, func() {
		Convey("Then validation rejects the config", func() {
			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestLoadValidationTopK(t *testing.T) {
	t.Setenv("REVLENS_TOP_K", "-1")

	Convey("Given a non-positive top_k", t, func() {
		Convey("Then validation rejects the config", func() {
			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
