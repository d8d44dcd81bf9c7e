package storage

// Tests for file and tree copying.
//
// Focus: CopyFile (atomic with temp files), CopyDir (arbitrary depth, merge
// into existing trees), VerifyCopy, ValidatePathSafety (symlink protection).

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/example/modswap/internal/modswap/domain"
)

func TestCopyFile_Success(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	src := "/game/menyoo.dll"
	dst := "/game/ModsBackup/menyoo.dll"

	if err := afero.WriteFile(fs, src, []byte("content"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := storage.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	content, err := afero.ReadFile(fs, dst)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(content) != "content" {
		t.Errorf("expected 'content', got %q", string(content))
	}

	if exists, _ := afero.Exists(fs, dst+tempSuffix); exists {
		t.Error("temp file should not exist after successful copy")
	}
}

func TestCopyFile_CreatesIntermediateDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	src := "/game/mods/update/update.rpf"
	dst := "/game/ModsBackup/mods/update/update.rpf"

	if err := afero.WriteFile(fs, src, []byte("data"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := storage.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	exists, err := afero.Exists(fs, dst)
	if err != nil {
		t.Fatalf("exists check: %v", err)
	}
	if !exists {
		t.Error("destination file should exist")
	}
}

func TestCopyFile_OverwritesExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	src := "/game/menyoo.dll"
	dst := "/backup/menyoo.dll"

	if err := afero.WriteFile(fs, src, []byte("new"), 0o644); err != nil {
		t.Fatalf("setup src: %v", err)
	}
	if err := afero.WriteFile(fs, dst, []byte("old"), 0o644); err != nil {
		t.Fatalf("setup dst: %v", err)
	}

	if err := storage.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	content, err := afero.ReadFile(fs, dst)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(content) != "new" {
		t.Errorf("expected 'new', got %q", string(content))
	}
}

func TestCopyFile_PreservesPermissions(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	src := "/game/ScriptHookV.exe"
	dst := "/backup/ScriptHookV.exe"
	if err := afero.WriteFile(fs, src, []byte("bin"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := storage.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	info, err := fs.Stat(dst)
	if err != nil {
		t.Fatalf("stat dest: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("expected file mode 0755, got %o", info.Mode().Perm())
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	err := storage.CopyFile("/nonexistent", "/dest")
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist in chain, got: %v", err)
	}
}

func TestCopyFile_RejectsDirectorySource(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	if err := fs.MkdirAll("/game/scripts", 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := storage.CopyFile("/game/scripts", "/backup/scripts"); err == nil {
		t.Fatal("expected error when copying a directory as a file")
	}
}

func TestCopyDir_PreservesNestedTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	files := map[string]string{
		"/src/root.txt":           "root",
		"/src/a/one.txt":          "one",
		"/src/a/b/two.txt":        "two",
		"/src/a/b/c/file.txt":     "deep",
		"/src/a/b/c/d/e/leaf.bin": "leaf",
	}
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup %s: %v", path, err)
		}
	}
	if err := fs.MkdirAll("/src/empty/dir", 0o755); err != nil {
		t.Fatalf("setup empty dir: %v", err)
	}

	if err := storage.CopyDir("/src", "/dst"); err != nil {
		t.Fatalf("CopyDir failed: %v", err)
	}

	for path, want := range files {
		target := filepath.Join("/dst", path[len("/src"):])
		got, err := afero.ReadFile(fs, target)
		if err != nil {
			t.Fatalf("read %s: %v", target, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", target, got, want)
		}
	}

	if isDir, err := afero.IsDir(fs, "/dst/empty/dir"); err != nil || !isDir {
		t.Errorf("expected empty directory to be copied, isDir=%v err=%v", isDir, err)
	}

	if err := storage.VerifyCopy("/src", "/dst"); err != nil {
		t.Errorf("VerifyCopy: %v", err)
	}
}

func TestCopyDir_MergesIntoExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	if err := afero.WriteFile(fs, "/src/shared.txt", []byte("new"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := afero.WriteFile(fs, "/dst/shared.txt", []byte("old"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := afero.WriteFile(fs, "/dst/extra.txt", []byte("extra"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := storage.CopyDir("/src", "/dst"); err != nil {
		t.Fatalf("CopyDir failed: %v", err)
	}

	got, _ := afero.ReadFile(fs, "/dst/shared.txt")
	if string(got) != "new" {
		t.Errorf("shared.txt = %q, want %q", got, "new")
	}
	if exists, _ := afero.Exists(fs, "/dst/extra.txt"); !exists {
		t.Error("existing destination files should be left in place")
	}
}

func TestVerifyCopy_DetectsMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	if err := afero.WriteFile(fs, "/src/a/file.txt", []byte("original"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := afero.WriteFile(fs, "/dst/a/file.txt", []byte("tampered"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	err := storage.VerifyCopy("/src", "/dst")
	if !errors.Is(err, domain.ErrContentMismatch) {
		t.Fatalf("expected ErrContentMismatch, got %v", err)
	}
}

func TestVerifyCopy_DetectsMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	if err := afero.WriteFile(fs, "/src/file.txt", []byte("data"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	err := storage.VerifyCopy("/src/file.txt", "/dst/file.txt")
	if !errors.Is(err, domain.ErrContentMismatch) {
		t.Fatalf("expected ErrContentMismatch, got %v", err)
	}
}

func TestKindOf(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	if err := afero.WriteFile(fs, "/game/mod.asi", []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := fs.MkdirAll("/game/scripts", 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		path string
		want Kind
	}{
		{"/game/mod.asi", KindFile},
		{"/game/scripts", KindDir},
		{"/game/missing", KindNone},
	}
	for _, tt := range tests {
		got, err := storage.KindOf(tt.path)
		if err != nil {
			t.Fatalf("KindOf(%s): %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("KindOf(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWriteFile_ReplacesAtomically(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	path := "/game/modConfig.json"
	if err := afero.WriteFile(fs, path, []byte("old"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := storage.WriteFile(path, []byte("new")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, _ := afero.ReadFile(fs, path)
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}
	if exists, _ := afero.Exists(fs, path+tempSuffix); exists {
		t.Error("temp file should not remain")
	}
}

func TestValidatePathSafety_NonExistentPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	// Non-existent paths should be safe (allows writing new files)
	if err := storage.ValidatePathSafety("/nonexistent/file.dll"); err != nil {
		t.Errorf("non-existent path should be safe: %v", err)
	}
}

func TestValidatePathSafety_Symlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.dll")
	link := filepath.Join(dir, "link.dll")
	if err := os.WriteFile(target, []byte("data"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	storage := New(afero.NewOsFs())
	if err := storage.ValidatePathSafety(link); !errors.Is(err, domain.ErrSymlinkRefused) {
		t.Fatalf("expected ErrSymlinkRefused, got %v", err)
	}
	if err := storage.CopyFile(link, filepath.Join(dir, "copy.dll")); !errors.Is(err, domain.ErrSymlinkRefused) {
		t.Fatalf("expected CopyFile to refuse symlink, got %v", err)
	}
}

func TestCopyDir_RefusesNestedSymlink(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scripts")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.Symlink("/etc/hosts", filepath.Join(src, "hosts")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	storage := New(afero.NewOsFs())
	err := storage.CopyDir(src, filepath.Join(dir, "backup"))
	if !errors.Is(err, domain.ErrSymlinkRefused) {
		t.Fatalf("expected ErrSymlinkRefused, got %v", err)
	}
}
