package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactingHandler_MasksPersonalKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key   string
		value string
	}{
		{"name", "ADA LOVELACE"},
		{"Name", "ADA LOVELACE"},
		{"registration", "201510001"},
		{"sgpa_odd", "8.50"},
		{"YGPA", "8.60"},
		{"grade", "A"},
		{"cookie", "ASP.NET_SessionId=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewLogger(&buf, true)
			logger.Info("test", tt.key, tt.value)

			if strings.Contains(buf.String(), tt.value) {
				t.Errorf("expected %s to be masked, got %s", tt.key, buf.String())
			}
			if !strings.Contains(buf.String(), MaskValue) {
				t.Errorf("expected mask in output, got %s", buf.String())
			}
		})
	}
}

func TestRedactingHandler_KeepsOperationalKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true)
	logger.Info("fetch failed", "roll", "10400117001", "state", "submitted", "url", "https://portal.test/result.aspx")

	for _, want := range []string{"roll=10400117001", "state=submitted", "url=https://portal.test/result.aspx"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output, got %s", want, buf.String())
		}
	}
}

func TestRedactingHandler_MasksSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{"view state", "dDwtMTM3NjQ2NjQ2Nzs7PmRkZGRkZGRkZGRkZGRkZGRkZGRkZGRkZGRk"},
		{"session cookie", "ASP.NET_SessionId=x2vqz; path=/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			NewLogger(&buf, true).Info("test", "value", tt.value)
			if strings.Contains(buf.String(), tt.value) {
				t.Errorf("expected value to be masked, got %s", buf.String())
			}
		})
	}
}

func TestRedactingHandler_Levels(t *testing.T) {
	t.Parallel()

	t.Run("quiet logger drops info and debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)
		logger.Debug("debug")
		logger.Info("info")
		logger.Warn("warn")

		out := buf.String()
		if strings.Contains(out, "msg=debug") || strings.Contains(out, "msg=info") {
			t.Errorf("unexpected low-level records: %s", out)
		}
		if !strings.Contains(out, "msg=warn") {
			t.Errorf("expected warning, got %s", out)
		}
	})

	t.Run("verbose logger writes debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewLogger(&buf, true).Debug("debug")
		if !strings.Contains(buf.String(), "msg=debug") {
			t.Errorf("expected debug record, got %s", buf.String())
		}
	})
}

func TestRedactingHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true).With("name", "ADA").WithGroup("student")
	logger.Info("test", slog.Group("result", "sgpa_even", "9.1", "roll", "101"))

	out := buf.String()
	if strings.Contains(out, "ADA") || strings.Contains(out, "9.1") {
		t.Errorf("expected personal data to be masked, got %s", out)
	}
	if !strings.Contains(out, "student.result.roll=101") {
		t.Errorf("expected grouped roll, got %s", out)
	}
}

func TestNewJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewJSONLogger(&buf, false).Warn("test", "registration", "201510001", "roll", "101")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if record["registration"] != MaskValue {
		t.Errorf("expected masked registration, got %v", record["registration"])
	}
	if record["roll"] != "101" {
		t.Errorf("expected roll 101, got %v", record["roll"])
	}
}

func TestNewRedactingHandler_NilHandler(t *testing.T) {
	t.Parallel()

	if h := NewRedactingHandler(nil); h.handler == nil {
		t.Error("expected default handler")
	}
}
