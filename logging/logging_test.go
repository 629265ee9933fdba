package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"go.viam.com/test"
)

func TestObservedLevels(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)

	logger.Debugw("decoded header", "width", 512)
	logger.Infof("built %d points", 4)
	test.That(t, logs.Len(), test.ShouldEqual, 2)

	entries := logs.TakeAll()
	test.That(t, entries[0].Level, test.ShouldEqual, zapcore.DebugLevel)
	test.That(t, entries[0].ContextMap()["width"], test.ShouldEqual, int64(512))
	test.That(t, entries[1].Message, test.ShouldEqual, "built 4 points")

	logger.SetLevel(WARN)
	logger.Info("dropped")
	logger.Debug("dropped")
	logger.Warn("kept")
	logger.Error("kept")
	test.That(t, logs.Len(), test.ShouldEqual, 2)
}

func TestSublogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	sub := logger.Sublogger("rimage")
	subsub := sub.Sublogger("decoder")

	subsub.Info("hello")
	entries := logs.TakeAll()
	test.That(t, entries, test.ShouldHaveLength, 1)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "rimage.decoder")

	// levels are copied, not shared
	sub.SetLevel(ERROR)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	test.That(t, subsub.GetLevel(), test.ShouldEqual, DEBUG)
}

func TestLevelFromString(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.expected)
	}

	_, err := LevelFromString("verbose")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLevelJSON(t *testing.T) {
	var cfg struct {
		Level Level `json:"level"`
	}
	test.That(t, json.Unmarshal([]byte(`{"level":"warn"}`), &cfg), test.ShouldBeNil)
	test.That(t, cfg.Level, test.ShouldEqual, WARN)

	out, err := json.Marshal(cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(out), test.ShouldEqual, `{"level":"warn"}`)

	test.That(t, json.Unmarshal([]byte(`{"level":"loud"}`), &cfg), test.ShouldNotBeNil)
}

func TestAddAppender(t *testing.T) {
	logger := NewBlankLogger("blank")
	logger.Info("nowhere")

	core, logs := observer.New(zapcore.DebugLevel)
	logger.AddAppender(core)
	logger.Info("somewhere")
	test.That(t, logs.Len(), test.ShouldEqual, 1)
	test.That(t, logs.All()[0].LoggerName, test.ShouldEqual, "blank")
	test.That(t, logs.All()[0].Message, test.ShouldEqual, "somewhere")
}

func TestFileAppender(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "panodepth.log")
	appender, closer := NewFileAppender(fn)
	logger := NewBlankLogger("file")
	logger.AddAppender(appender)

	logger.Infow("wrote outputs", "points", 8)
	logger.Debug("details")
	test.That(t, logger.Sync(), test.ShouldBeNil)
	test.That(t, closer.Close(), test.ShouldBeNil)

	data, err := os.ReadFile(fn)
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	test.That(t, lines, test.ShouldHaveLength, 2)

	var entry map[string]interface{}
	test.That(t, json.Unmarshal([]byte(lines[0]), &entry), test.ShouldBeNil)
	test.That(t, entry["msg"], test.ShouldEqual, "wrote outputs")
	test.That(t, entry["level"], test.ShouldEqual, "INFO")
	test.That(t, entry["logger"], test.ShouldEqual, "file")
	test.That(t, entry["points"], test.ShouldEqual, 8.0)
}
