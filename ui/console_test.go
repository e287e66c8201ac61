package ui

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestConsoleUISubmitsEachLine(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleUI(strings.NewReader("status\r\n\nTRACEI 10\n"), &out)

	var submitted []string
	c.OnSubmit(func(line string) error {
		submitted = append(submitted, line)
		return errors.New("ignored")
	})

	if err := c.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"status", "", "TRACEI 10"}
	if strings.Join(submitted, "|") != strings.Join(want, "|") {
		t.Errorf("submitted = %q, want %q", submitted, want)
	}

	select {
	case <-c.Done():
	default:
		t.Error("Done() should be closed after Run returns")
	}
}

func TestConsoleUIOutput(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleUI(strings.NewReader(""), &out)

	c.SetStatus("Connected to localhost:4444")
	c.SetStatus("Connected to localhost:4444")
	c.AppendOutput("220 ready")
	c.AppendOutput("")
	c.ResetOutput("read: connection reset by peer")

	want := "[Connected to localhost:4444]\n" +
		"220 ready\n" +
		"\n" +
		"!! read: connection reset by peer\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestConsoleUIQuitStopsRun(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pr.Close() })

	c := NewConsoleUI(pr, io.Discard)
	var submitted []string
	c.OnSubmit(func(line string) error {
		submitted = append(submitted, line)
		return nil
	})

	errc := make(chan error, 1)
	go func() { errc <- c.Run() }()

	c.Quit()
	go func() {
		_, _ = pw.Write([]byte("ignored\n"))
		pw.Close()
	}()

	waitDone(t, c.Done())
	if err := <-errc; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(submitted) != 0 {
		t.Errorf("submitted = %q after Quit", submitted)
	}
}

func TestConsoleUIAcceptsLongLines(t *testing.T) {
	long := strings.Repeat("x", 256*1024)
	c := NewConsoleUI(strings.NewReader(long+"\nstatus"), io.Discard)

	var submitted []string
	c.OnSubmit(func(line string) error {
		submitted = append(submitted, line)
		return nil
	})

	if err := c.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(submitted) != 2 {
		t.Fatalf("submitted %d commands, want 2", len(submitted))
	}
	if submitted[0] != long {
		t.Errorf("long command truncated to %d bytes", len(submitted[0]))
	}
	if submitted[1] != "status" {
		t.Errorf("last command = %q, want unterminated %q", submitted[1], "status")
	}
}
