// Package workdir finds the project directory whose .editable folder holds
// the config file and the field database.
package workdir

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// EnvDir overrides the lookup. Relative values resolve against the start
// directory.
const EnvDir = "EDITABLE_DIR"

const (
	rootFile   = ".editable-root"
	projectDir = ".editable"
)

// ResolveBaseDir returns the directory that contains (or should contain)
// .editable for a command started in start.
//
// EDITABLE_DIR wins. Otherwise each directory from start up to the git top
// level is checked for a .editable-root redirect or a .editable folder; the
// nearest match wins. Outside git only start itself is checked. With no
// match start is returned unchanged.
func ResolveBaseDir(start string) string {
	if start == "" {
		return start
	}
	start = filepath.Clean(start)

	if dir := strings.TrimSpace(os.Getenv(EnvDir)); dir != "" {
		return rootOf(absFrom(start, dir))
	}

	top, err := gitTopLevel(start)
	if err != nil || top == "" {
		top = start
	}

	for _, dir := range lineage(start, filepath.Clean(top)) {
		if resolved, ok := readRoot(dir); ok {
			return resolved
		}
		if hasProjectDir(dir) {
			return dir
		}
	}
	return start
}

// ProjectDir is the .editable folder under a base directory.
func ProjectDir(baseDir string) string {
	return filepath.Join(baseDir, projectDir)
}

// lineage lists start and its parents up to top. When top is not an
// ancestor of start (symlinked checkouts), only the two ends are checked.
func lineage(start, top string) []string {
	if start == top {
		return []string{start}
	}
	rel, err := filepath.Rel(top, start)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return []string{start, top}
	}

	var dirs []string
	for dir := start; ; dir = filepath.Dir(dir) {
		dirs = append(dirs, dir)
		if dir == top || filepath.Dir(dir) == dir {
			return dirs
		}
	}
}

// readRoot follows a .editable-root file. The target may name the base
// directory or the .editable folder inside it.
func readRoot(dir string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(dir, rootFile))
	if err != nil {
		return "", false
	}
	target := strings.TrimSpace(string(content))
	if target == "" {
		return "", false
	}
	return rootOf(absFrom(dir, target)), true
}

func absFrom(dir, path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return filepath.Clean(path)
}

func rootOf(path string) string {
	if filepath.Base(path) == projectDir {
		return filepath.Dir(path)
	}
	return path
}

func hasProjectDir(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, projectDir))
	return err == nil && fi.IsDir()
}

func gitTopLevel(dir string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
