package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nitflow/internal/manifest"
	"github.com/samcharles93/nitflow/pkg/nitf"
)

const testManifest = `
header:
  profile: NITF
  version: "02.10"
  title: Pier
  classification: U
images:
  - id: RGB
    rows: 2
    columns: 2
    bands:
      - representation: R
      - representation: G
    pixel_value_type: INT
    bits_per_pixel: 8
    mode: P
    data: rgb.raw
texts:
  - id: NOTE
    format: STA
    text: low tide
`

func writeManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	// Row-major, two bands per pixel.
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := os.WriteFile(filepath.Join(dir, "rgb.raw"), raw, 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	path := filepath.Join(dir, "pier.yaml")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file is zero config", func(t *testing.T) {
		got, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("loadConfig returned error: %v", err)
		}
		if !reflect.DeepEqual(got, Config{}) {
			t.Fatalf("expected zero config, got %+v", got)
		}
	})

	t.Run("values are read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := "manifest: /data/pier.yaml\nlog_level: debug\nlog_format: json\nserver_address: 0.0.0.0:9000\nread_timeout: 5s\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		got, err := loadConfig(path)
		if err != nil {
			t.Fatalf("loadConfig returned error: %v", err)
		}
		if got.Manifest != "/data/pier.yaml" || got.LogLevel != "debug" || got.LogFormat != "json" || got.ServerAddress != "0.0.0.0:9000" {
			t.Fatalf("unexpected config: %+v", got)
		}
		if got.ReadTimeout == nil || *got.ReadTimeout != 5*time.Second {
			t.Fatalf("read timeout: %v", got.ReadTimeout)
		}
	})

	t.Run("malformed file fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("log_level: [\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := loadConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestApplyServeConfigRespectsFlags(t *testing.T) {
	timeout := 7 * time.Second
	conf := Config{ServerAddress: "10.0.0.1:1", ReadTimeout: &timeout}

	run := func(args ...string) (string, time.Duration) {
		var (
			addr string
			rt   time.Duration
		)
		cmd := &cli.Command{
			Name: "serve",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "addr", Value: "127.0.0.1:8080", Destination: &addr},
				&cli.DurationFlag{Name: "read-timeout", Value: 30 * time.Second, Destination: &rt},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				applyServeConfig(c, conf, &addr, &rt)
				return nil
			},
		}
		if err := cmd.Run(context.Background(), append([]string{"serve"}, args...)); err != nil {
			t.Fatalf("run: %v", err)
		}
		return addr, rt
	}

	addr, rt := run()
	if addr != "10.0.0.1:1" || rt != timeout {
		t.Fatalf("config defaults not applied: %s %s", addr, rt)
	}
	addr, rt = run("--addr", "127.0.0.1:9999")
	if addr != "127.0.0.1:9999" || rt != timeout {
		t.Fatalf("explicit flag overridden: %s %s", addr, rt)
	}
}

func TestWithReadTimeout(t *testing.T) {
	t.Parallel()

	srv := &http.Server{}
	if err := withReadTimeout(12 * time.Second)(srv); err != nil {
		t.Fatalf("before serve: %v", err)
	}
	if srv.ReadTimeout != 12*time.Second || srv.ReadHeaderTimeout != 0 {
		t.Fatalf("timeouts: read=%s header=%s", srv.ReadTimeout, srv.ReadHeaderTimeout)
	}
}

func TestResolveManifest(t *testing.T) {
	prevPath, prevCfg := manifestPath, cfg
	t.Cleanup(func() { manifestPath, cfg = prevPath, prevCfg })

	manifestPath, cfg = "", Config{}
	if _, err := resolveManifest(); err == nil {
		t.Fatalf("expected error without a manifest")
	}
	cfg = Config{Manifest: "from-config.yaml"}
	if got, _ := resolveManifest(); got != "from-config.yaml" {
		t.Fatalf("config manifest: got %q", got)
	}
	manifestPath = "from-flag.yaml"
	if got, _ := resolveManifest(); got != "from-flag.yaml" {
		t.Fatalf("flag manifest: got %q", got)
	}
}

func TestParseKinds(t *testing.T) {
	t.Parallel()

	got, err := parseKinds(nil)
	if err != nil || !reflect.DeepEqual(got, nitf.Kinds) {
		t.Fatalf("default kinds: %v %v", got, err)
	}
	got, err = parseKinds([]string{"text,image", "des"})
	if err != nil {
		t.Fatalf("parseKinds: %v", err)
	}
	want := []nitf.SegmentKind{nitf.KindText, nitf.KindImage, nitf.KindDataExtension}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds: got %v want %v", got, want)
	}
	got, err = parseKinds([]string{"image", "image,text", "images"})
	if err != nil || !reflect.DeepEqual(got, []nitf.SegmentKind{nitf.KindImage, nitf.KindText}) {
		t.Fatalf("repeated kinds: got %v, %v", got, err)
	}
	if _, err := parseKinds([]string{"pictures"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestCollectAndPrint(t *testing.T) {
	t.Parallel()

	fl, err := manifest.Open(writeManifest(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	report, err := collect(fl, nitf.Kinds)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if report.Header.Title != "Pier" || report.FlowID == "" {
		t.Fatalf("header: %+v", report)
	}
	if report.Counts["image"] != 1 || report.Counts["text"] != 1 || report.Counts["label"] != 0 {
		t.Fatalf("counts: %v", report.Counts)
	}
	if len(report.Segments) != 2 || report.Segments[0].ID != "RGB" || report.Segments[1].ID != "NOTE" {
		t.Fatalf("segments: %+v", report.Segments)
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()
	for _, want := range []string{"NITF02.10", "image segments (1)", "RGB", "2x2 bands=2 INT/8 imode=P ic=NC", "format=STA"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := writeJSON(&buf, report); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"flow_id"`) || !strings.Contains(buf.String(), `"kind": "text"`) {
		t.Fatalf("json output: %s", buf.String())
	}
}

func TestSamplePixel(t *testing.T) {
	t.Parallel()

	path := writeManifest(t)
	fl, err := manifest.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	px, err := samplePixel(fl, 0, 1, 0)
	if err != nil {
		t.Fatalf("samplePixel: %v", err)
	}
	if !reflect.DeepEqual(px.Samples, []float64{5, 6}) || px.Format != "uint8" {
		t.Fatalf("pixel: %+v", px)
	}

	var buf bytes.Buffer
	printPixel(&buf, px)
	if !strings.Contains(buf.String(), "band 1 G") {
		t.Fatalf("print: %s", buf.String())
	}

	fl, err = manifest.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := samplePixel(fl, 3, 0, 0); err == nil {
		t.Fatalf("expected missing image error")
	}
}
