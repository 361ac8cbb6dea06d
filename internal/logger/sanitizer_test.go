package logger

import (
	"errors"
	"testing"
)

func TestHomeMasker_Mask(t *testing.T) {
	m := newHomeMasker("/home/alice")

	tests := []struct {
		in   string
		want string
	}{
		{"/home/alice/photos", "~/photos"},
		{"/home/bob/photos", "/home/***/photos"},
		{"/Users/carol/Downloads", "/Users/***/Downloads"},
		{`C:\Users\dave\Downloads`, `C:\Users\***\Downloads`},
		{"C:/Users/dave/Sub", "C:/Users/***/Sub"},
		{"/tmp/crawl", "/tmp/crawl"},
	}

	for _, tt := range tests {
		if got := m.Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHomeMasker_MaskArgs(t *testing.T) {
	m := newHomeMasker("")
	args := []any{"path", "/home/bob/x", "count", 3, "error", errors.New("open /home/bob/y: denied")}

	got := m.MaskArgs(args)

	if got[1] != "/home/***/x" {
		t.Errorf("string value not masked: %v", got[1])
	}
	if got[3] != 3 {
		t.Errorf("non-string value changed: %v", got[3])
	}
	if got[5] != "open /home/***/y: denied" {
		t.Errorf("error value not masked: %v", got[5])
	}
	if args[1] != "/home/bob/x" {
		t.Error("input slice was modified")
	}
}
