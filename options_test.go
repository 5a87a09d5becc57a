package ftpstream

import (
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOptions(t *testing.T) {
	t.Parallel()

	s := &Stream{}
	logger := slog.Default()
	dialer := &net.Dialer{}

	opts := []Option{
		WithTimeout(7 * time.Second),
		WithLogger(logger),
		WithDialer(dialer),
		WithWriteSeekable(),
		WithAnonymousPassword("a@b.org"),
		WithProgress(func(int64) {}),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			t.Fatalf("option failed: %v", err)
		}
	}

	if s.timeout != 7*time.Second {
		t.Errorf("timeout = %v, want 7s", s.timeout)
	}
	if s.logger != logger {
		t.Error("logger not applied")
	}
	if s.dialer != dialer {
		t.Error("dialer not applied")
	}
	if !s.writeSeekable {
		t.Error("writeSeekable not applied")
	}
	if s.anonymousPassword != "a@b.org" {
		t.Errorf("anonymousPassword = %q", s.anonymousPassword)
	}
	if s.progress == nil {
		t.Error("progress callback not applied")
	}
}

func TestOptionsFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "options.yaml")
	content := "timeout: 30\nftp-write-seekable: 1\nftp-anonymous-password: me@example.org\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := OptionsFromFile(path)
	if err != nil {
		t.Fatalf("OptionsFromFile() error = %v", err)
	}

	s := &Stream{}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			t.Fatalf("option failed: %v", err)
		}
	}

	if s.timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", s.timeout)
	}
	if !s.writeSeekable {
		t.Error("writeSeekable not applied")
	}
	if s.anonymousPassword != "me@example.org" {
		t.Errorf("anonymousPassword = %q", s.anonymousPassword)
	}
}

func TestOptionsFromFile_NegativeTimeoutKeepsDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "options.yaml")
	if err := os.WriteFile(path, []byte("timeout: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := OptionsFromFile(path)
	if err != nil {
		t.Fatalf("OptionsFromFile() error = %v", err)
	}
	if len(opts) != 0 {
		t.Errorf("got %d options, want none", len(opts))
	}
}

func TestOptionsFromFile_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "options.yaml")
	if err := os.WriteFile(path, []byte("timeout: [oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := OptionsFromFile(path); err == nil {
		t.Error("OptionsFromFile() should fail on malformed YAML")
	}

	if _, err := OptionsFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("OptionsFromFile() should fail on a missing file")
	}
}
