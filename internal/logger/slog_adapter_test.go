package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSlogLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		log       func(Logger)
		shouldLog bool
	}{
		{"debug at debug level", LevelDebug, func(l Logger) { l.Debug("msg") }, true},
		{"debug at info level", LevelInfo, func(l Logger) { l.Debug("msg") }, false},
		{"info at warn level", LevelWarn, func(l Logger) { l.Info("msg") }, false},
		{"warn at warn level", LevelWarn, func(l Logger) { l.Warn("msg") }, true},
		{"error at error level", LevelError, func(l Logger) { l.Error("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l, err := NewSlogLogger(Config{
				Level:   tt.level,
				Outputs: []OutputConfig{{Type: OutputStdout, Writer: buf}},
			})
			if err != nil {
				t.Fatalf("NewSlogLogger() error = %v", err)
			}
			tt.log(l)

			logged := buf.Len() > 0
			if logged != tt.shouldLog {
				t.Errorf("logged = %v, want %v (output %q)", logged, tt.shouldLog, buf.String())
			}
		})
	}
}

func TestSlogLogger_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := NewSlogLogger(Config{
		Level:   LevelInfo,
		Format:  FormatJSON,
		Outputs: []OutputConfig{{Type: OutputStdout, Writer: buf}},
	})
	if err != nil {
		t.Fatalf("NewSlogLogger() error = %v", err)
	}

	l.Info("saved partition", "kind", "files", "entries", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if record["msg"] != "saved partition" || record["kind"] != "files" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestSlogLogger_MasksHome(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := NewSlogLogger(Config{
		Level:    LevelInfo,
		MaskHome: true,
		Outputs:  []OutputConfig{{Type: OutputStdout, Writer: buf}},
	})
	if err != nil {
		t.Fatalf("NewSlogLogger() error = %v", err)
	}
	l.masker = newHomeMasker("/home/alice")

	l.Info("crawling /home/alice/docs", "root", "/home/bob/music")

	out := buf.String()
	if strings.Contains(out, "alice") || strings.Contains(out, "bob") {
		t.Errorf("user names leaked: %s", out)
	}
	if !strings.Contains(out, "~/docs") || !strings.Contains(out, "/home/***/music") {
		t.Errorf("unexpected masking: %s", out)
	}
}

func TestSlogLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "crawler.log")
	l, err := NewSlogLogger(Config{
		Level:   LevelInfo,
		Outputs: []OutputConfig{{Type: OutputFile}},
		File:    FileConfig{Enabled: true, Path: path, MaxSizeMB: 1},
	})
	if err != nil {
		t.Fatalf("NewSlogLogger() error = %v", err)
	}

	l.Info("to file")
	if err := l.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestSlogLogger_FileOutputRequiresPath(t *testing.T) {
	_, err := NewSlogLogger(Config{
		Outputs: []OutputConfig{{Type: OutputFile}},
		File:    FileConfig{Enabled: true},
	})
	if err == nil {
		t.Error("expected error for empty log file path")
	}
}

func TestSlogLogger_ChildDoesNotCloseWriters(t *testing.T) {
	buf := &bytes.Buffer{}
	l, _ := NewSlogLogger(Config{Outputs: []OutputConfig{{Type: OutputStdout, Writer: buf}}})

	child := l.With("component", "store")
	if err := child.Shutdown(); err != nil {
		t.Errorf("child Shutdown() error = %v", err)
	}
	child.Info("still writing")

	if !strings.Contains(buf.String(), "component=store") {
		t.Errorf("child output missing context: %s", buf.String())
	}
}
