package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadScriptClassification(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ts", `let x = 1;`)

	l := New(nil)
	files, err := l.Load(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].Kind != Script {
		t.Fatalf("expected one script file, got %+v", files)
	}
}

func TestLoadModuleClassification(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ts", `export const x = 1;`)

	l := New(nil)
	files, err := l.Load(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].Kind != Module {
		t.Fatalf("expected one module file, got %+v", files)
	}
}

func TestReferenceDirectiveLoadsDependencyFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.ts", `let helper = 1;`)
	entry := writeFile(t, dir, "main.ts", `/// <reference path="util.ts">
let x = helper;`)

	l := New(nil)
	files, err := l.Load(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if filepath.Base(files[0].Path) != "util.ts" {
		t.Errorf("expected util.ts to load first, got %s", files[0].Path)
	}
	if filepath.Base(files[1].Path) != "main.ts" {
		t.Errorf("expected main.ts to load last, got %s", files[1].Path)
	}
}

func TestReferenceExtensionElision(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.ts", `let helper = 1;`)
	entry := writeFile(t, dir, "main.ts", `/// <reference path="util">
let x = helper;`)

	l := New(nil)
	files, err := l.Load(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
}

func TestReferenceMissingFileIsNotFound(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ts", `/// <reference path="missing.ts">
let x = 1;`)

	l := New(nil)
	_, err := l.Load(entry)
	if err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestReferenceCycleIsDetected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", `/// <reference path="b.ts">
let a = 1;`)
	entry := writeFile(t, dir, "b.ts", `/// <reference path="a.ts">
let b = 2;`)

	l := New(nil)
	_, err := l.Load(entry)
	if err == nil {
		t.Fatal("expected circular reference error")
	}
}

func TestReferenceToModuleIsRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mod.ts", `export const y = 1;`)
	entry := writeFile(t, dir, "main.ts", `/// <reference path="mod.ts">
let x = 1;`)

	l := New(nil)
	_, err := l.Load(entry)
	if err == nil {
		t.Fatal("expected error referencing a module from a script")
	}
}

func TestImportLoadsDependencyModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math.ts", `export const add = 1;`)
	entry := writeFile(t, dir, "main.ts", `import { add } from "./math";`)

	l := New(nil)
	files, err := l.Load(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if filepath.Base(files[0].Path) != "math.ts" {
		t.Errorf("expected math.ts to load before main.ts, got order %v", files)
	}
}

func TestFileLoadedAtMostOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.ts", `let shared = 1;`)
	writeFile(t, dir, "a.ts", `/// <reference path="shared.ts">
let a = shared;`)
	entry := writeFile(t, dir, "main.ts", `/// <reference path="a.ts">
/// <reference path="shared.ts">
let x = shared;`)

	l := New(nil)
	files, err := l.Load(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	for _, f := range files {
		if filepath.Base(f.Path) == "shared.ts" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected shared.ts to load exactly once, loaded %d times", count)
	}
}
