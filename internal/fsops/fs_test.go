package fsops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	t.Run("writes file with content", func(t *testing.T) {
		path := filepath.Join(dir, "a.bin")
		if err := fs.AtomicWrite(path, []byte("payload"), 0644); err != nil {
			t.Fatalf("AtomicWrite() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "payload" {
			t.Errorf("content = %q, want payload", data)
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(dir, "deep", "nested", "b.bin")
		if err := fs.AtomicWrite(path, []byte("x"), 0644); err != nil {
			t.Fatalf("AtomicWrite() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("file not created: %v", err)
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		path := filepath.Join(dir, "c.bin")
		if err := fs.AtomicWrite(path, []byte("first"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := fs.AtomicWrite(path, []byte("second"), 0644); err != nil {
			t.Fatal(err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != "second" {
			t.Errorf("content = %q, want second", data)
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		path := filepath.Join(dir, "d.bin")
		if err := fs.AtomicWrite(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".bulkstamp-tmp-") {
				t.Errorf("temp file %s left behind", e.Name())
			}
		}
	})
}

func TestRealFS_Exists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	existing := filepath.Join(dir, "here.txt")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ok, err := fs.Exists(existing)
	if err != nil || !ok {
		t.Errorf("Exists(existing) = %v, %v, want true", ok, err)
	}
	ok, err = fs.Exists(filepath.Join(dir, "absent.txt"))
	if err != nil || ok {
		t.Errorf("Exists(absent) = %v, %v, want false", ok, err)
	}
}

func TestRealFS_MkdirAll(t *testing.T) {
	fs := NewRealFS()
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := fs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	// Idempotent on an existing directory.
	if err := fs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() second call error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

func TestRealFS_ReadFile(t *testing.T) {
	fs := NewRealFS()
	path := filepath.Join(t.TempDir(), "r.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := fs.ReadFile(path)
	if err != nil || string(data) != "content" {
		t.Errorf("ReadFile() = %q, %v", data, err)
	}
	if _, err := fs.ReadFile(path + ".missing"); err == nil {
		t.Error("ReadFile(missing) expected error")
	}
}
