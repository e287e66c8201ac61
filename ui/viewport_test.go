package ui

import (
	"fmt"
	"strings"
	"testing"
)

func filledViewport(lines, height int) (*ScrollbackBuffer, *ScrollbackViewport) {
	sb := NewScrollbackBuffer(100)
	for i := 1; i <= lines; i++ {
		sb.Append(fmt.Sprintf("line %d", i))
	}
	vp := NewScrollbackViewport(sb)
	vp.SetDimensions(20, height)
	return sb, vp
}

func TestViewportShowsNewestLines(t *testing.T) {
	_, vp := filledViewport(10, 3)

	got := strings.Split(vp.View(), "\n")
	want := []string{"line 8", "line 9", "line 10"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("View() = %q, want %q", got, want)
	}
}

func TestViewportPadsShortContentAtTop(t *testing.T) {
	_, vp := filledViewport(1, 3)

	got := strings.Split(vp.View(), "\n")
	if len(got) != 3 {
		t.Fatalf("View() has %d rows, want 3", len(got))
	}
	if got[0] != "" || got[1] != "" || got[2] != "line 1" {
		t.Errorf("View() = %q", got)
	}
}

func TestViewportScrolledModeHoldsPosition(t *testing.T) {
	sb, vp := filledViewport(10, 3)

	vp.PageUp()
	if vp.Mode() != ModeScrolled {
		t.Fatalf("Mode() = %v, want ModeScrolled", vp.Mode())
	}
	before := vp.View()

	sb.Append("line 11")
	vp.OnNewLines(1)

	if vp.View() != before {
		t.Errorf("scrolled view moved: %q -> %q", before, vp.View())
	}
	if vp.NewLineCount() != 1 {
		t.Errorf("NewLineCount() = %d, want 1", vp.NewLineCount())
	}

	vp.GotoBottom()
	if vp.Mode() != ModeLive || !vp.AtBottom() || vp.NewLineCount() != 0 {
		t.Error("GotoBottom() should return to live mode")
	}
	if !strings.HasSuffix(vp.View(), "line 11") {
		t.Errorf("View() after GotoBottom = %q", vp.View())
	}
}

func TestViewportScrollClamps(t *testing.T) {
	_, vp := filledViewport(5, 3)

	vp.GotoTop()
	if !strings.HasPrefix(vp.View(), "line 1\n") {
		t.Errorf("View() at top = %q", vp.View())
	}

	vp.ScrollDown(100)
	if vp.Mode() != ModeLive {
		t.Error("scrolling past the bottom should return to live mode")
	}
}
