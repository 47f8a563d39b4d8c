package dispatch

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestReportersFanOut(t *testing.T) {
	var a, b int
	r := Reporters(ReporterFunc(func(Outcome) { a++ }), nil, ReporterFunc(func(Outcome) { b++ }))
	r.Report(Outcome{Status: StatusSent})
	if a != 1 || b != 1 {
		t.Fatalf("expected both reporters called once, got %d and %d", a, b)
	}
}

func TestLogReporterLevels(t *testing.T) {
	cases := []struct {
		status string
		level  string
	}{
		{StatusSent, "info"},
		{StatusNoAddress, "warning"},
		{StatusRenderFailed, "error"},
		{StatusSendFailed, "error"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		log := logrus.New()
		log.SetOutput(&buf)
		log.SetFormatter(&logrus.JSONFormatter{})

		LogReporter(log).Report(Outcome{Row: 7, Name: "Jane Smith", Status: tc.status, Email: "jane@example.com"})

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("%s: decode log line: %v", tc.status, err)
		}
		if entry["level"] != tc.level {
			t.Fatalf("%s: expected level %s, got %v", tc.status, tc.level, entry["level"])
		}
		if entry["row"] != float64(7) || entry["name"] != "Jane Smith" {
			t.Fatalf("%s: unexpected fields %v", tc.status, entry)
		}
	}
}
