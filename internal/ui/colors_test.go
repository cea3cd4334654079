package ui

import "testing"

func TestPaint(t *testing.T) {
	defer func(e bool) { Enabled = e }(Enabled)

	Enabled = true
	if got := Warning("skipped"); got != ColorBold+ColorYellow+"skipped"+ColorReset {
		t.Errorf("Unexpected styled warning %q", got)
	}
	if got := Error("failed"); got != ColorRed+"failed"+ColorReset {
		t.Errorf("Unexpected styled error %q", got)
	}

	Enabled = false
	for _, got := range []string{Success("ok"), Info("ok"), Warning("ok"), Error("ok")} {
		if got != "ok" {
			t.Errorf("Expected plain text with styling off, got %q", got)
		}
	}
}
