package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/johndauphine/csvlist/internal/logging"
)

func TestTrackerWithoutBar(t *testing.T) {
	var logs bytes.Buffer
	logging.SetOutput(&logs)
	defer logging.SetOutput(nil)

	tr := New("Writing", nil)
	tr.SetTotal(10)
	tr.Add(4)
	tr.Add(6)

	if tr.Current() != 10 || tr.Total() != 10 {
		t.Errorf("Current() = %d, Total() = %d, want 10/10", tr.Current(), tr.Total())
	}
	tr.Finish()
	if !strings.Contains(logs.String(), "Writing 10 rows") {
		t.Errorf("Finish() log = %q, want summary", logs.String())
	}
}

func TestTrackerDrawsBar(t *testing.T) {
	var out bytes.Buffer
	tr := New("Writing", &out)
	tr.SetTotal(3)
	tr.Add(3)
	tr.Finish()

	if !strings.Contains(out.String(), "Writing") {
		t.Errorf("bar output = %q, want description", out.String())
	}
}
