package diagnostic

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestCounts(t *testing.T) {
	d := New()
	d.Warningf(2, 1, "unused %s", "x")
	if d.HasErrors() {
		t.Error("Warnings alone should not count as errors")
	}
	d.Errorf(1, 5, "unbound name '%s'", "y")
	d.ErrorWithHint(3, 2, "arity mismatch", "pass exactly 1 argument(s)")

	if !d.HasErrors() || len(d.Errors()) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(d.Errors()))
	}
	if d.Count() != 3 || d.WarningCount() != 1 {
		t.Errorf("Expected 3 items and 1 warning, got %d and %d", d.Count(), d.WarningCount())
	}
}

func TestFormat(t *testing.T) {
	d := New()
	d.ErrorWithHint(3, 10, "unbound name 'x'", "declare it with let")
	d.Warningf(5, 1, "parameter 'z' in 'f' is never used")

	want := "error[main.es:3:10]: unbound name 'x'\n" +
		"  hint: declare it with let\n" +
		"warning[main.es:5:1]: parameter 'z' in 'f' is never used"
	if got := d.Format("main.es"); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Render(&buf, "main.es", true); err != nil || buf.Len() != 0 {
		t.Errorf("Expected nothing written for no diagnostics, got %q (%v)", buf.String(), err)
	}

	d := New()
	d.Errorf(1, 1, "boom")
	if err := d.Render(&buf, "main.es", false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "error[main.es:1:1]: boom\n" {
		t.Errorf("Unexpected plain output: %q", buf.String())
	}

	buf.Reset()
	if err := d.Render(&buf, "main.es", true); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), ansiRed+"error"+ansiReset) {
		t.Errorf("Expected colored label, got %q", buf.String())
	}
}

func TestColorEnabledRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(os.Stderr) {
		t.Error("NO_COLOR should disable color")
	}
}

func TestColorEnabledForFile(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if ColorEnabled(f) {
		t.Error("A regular file is not a terminal")
	}
}
