package source

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func archiveEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()

	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gzip.NewReader() error: %v", err)
	}

	entries := make(map[string]string)

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar read error: %v", err)
		}

		content, err := io.ReadAll(tarReader)
		if err != nil {
			t.Fatal(err)
		}
		entries[header.Name] = string(content)
	}
	return entries
}

func TestResolvePlainDirectory(t *testing.T) {

	dir := writeTree(t, map[string]string{"main.go": "package main\n"})

	workspace := NewWorkspace(&WorkspaceReq{Logger: zap.NewNop(), Path: dir})

	info, err := workspace.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if info.Dir != dir {
		t.Errorf("dir = %q, want %q", info.Dir, dir)
	}
	if info.Commit != "" {
		t.Errorf("commit = %q, want empty for a plain directory", info.Commit)
	}
}

func TestResolveMissingDirectory(t *testing.T) {

	workspace := NewWorkspace(&WorkspaceReq{
		Logger: zap.NewNop(),
		Path:   filepath.Join(t.TempDir(), "does-not-exist"),
	})

	if _, err := workspace.Resolve(context.Background()); err == nil {
		t.Error("Resolve() accepted a missing directory")
	}
}

func TestArchiveContents(t *testing.T) {

	dir := writeTree(t, map[string]string{
		"main.go":           "package main\n",
		"internal/app.go":   "package internal\n",
		".git/HEAD":         "ref: refs/heads/main\n",
		".git/config":       "[core]\n",
		"Dockerfile":        "FROM scratch\n",
		"docs/README.md":    "readme\n",
		".gitignore":        "bin/\n",
		"internal/.git.tmp": "not repository metadata\n",
	})

	workspace := NewWorkspace(&WorkspaceReq{Logger: zap.NewNop(), Path: dir})

	info, err := workspace.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	var buf bytes.Buffer
	if err := workspace.Archive(info, &buf); err != nil {
		t.Fatalf("Archive() error: %v", err)
	}

	entries := archiveEntries(t, buf.Bytes())

	if got := entries["main.go"]; got != "package main\n" {
		t.Errorf("main.go content = %q", got)
	}
	if _, ok := entries["internal/app.go"]; !ok {
		t.Error("nested file missing from archive")
	}
	if _, ok := entries["Dockerfile"]; !ok {
		t.Error("Dockerfile missing from archive")
	}
	if _, ok := entries["internal/.git.tmp"]; !ok {
		t.Error("file with .git prefix in its name was wrongly skipped")
	}

	for name := range entries {
		if name == ".git/" || strings.HasPrefix(name, ".git/") {
			t.Errorf("repository metadata %q leaked into archive", name)
		}
	}
}
