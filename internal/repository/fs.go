// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
)

// FS is a Repository over an afero filesystem. Document paths are resolved
// against the filesystem root; paths that escape it are rejected.
type FS struct {
	fs afero.Fs
}

// NewFS returns a repository over fsys.
func NewFS(fsys afero.Fs) *FS {
	return &FS{fs: fsys}
}

// NewDir returns a repository rooted at the directory dir on disk.
func NewDir(dir string) *FS {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return NewFS(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Read returns the content of the document at p.
func (r *FS) Read(p string) (string, error) {
	abs, err := resolve("read", p)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(r.fs, abs)
	if err != nil {
		return "", wrapErr("read", p, err)
	}
	return string(data), nil
}

// Write replaces the document at p. The content is written to a temporary
// file in the same directory and renamed into place.
func (r *FS) Write(p, content string) error {
	abs, err := resolve("write", p)
	if err != nil {
		return err
	}
	dir := path.Dir(abs)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return wrapErr("write", p, err)
	}

	tmp, err := afero.TempFile(r.fs, dir, ".docdim-")
	if err != nil {
		return wrapErr("write", p, err)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = r.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return wrapErr("write", p, err)
	}
	if err := tmp.Close(); err != nil {
		return wrapErr("write", p, err)
	}
	if err := r.fs.Rename(tmpName, abs); err != nil {
		return wrapErr("write", p, err)
	}
	success = true
	return nil
}

// List walks the filesystem and returns the files matching pattern.
func (r *FS) List(pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(path.Clean("/"+pattern), "/")
	matcher, err := CompilePattern(pattern)
	if err != nil {
		return nil, &Error{Kind: KindInvalidPath, Op: "list", Path: pattern, Err: err}
	}

	var out []string
	err = afero.Walk(r.fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(path.Clean(filepathToSlash(p)), "/")
		if strings.HasPrefix(path.Base(rel), ".docdim-") {
			return nil
		}
		if matcher.Match(rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("list", pattern, err)
	}
	sort.Strings(out)
	return out, nil
}

// Exists reports whether a file or directory exists at p.
func (r *FS) Exists(p string) (bool, error) {
	abs, err := resolve("exists", p)
	if err != nil {
		return false, err
	}
	ok, err := afero.Exists(r.fs, abs)
	if err != nil {
		return false, wrapErr("exists", p, err)
	}
	return ok, nil
}

// Metadata returns size and timestamps of p. Creation time is not available
// through afero and is always nil.
func (r *FS) Metadata(p string) (Metadata, error) {
	abs, err := resolve("metadata", p)
	if err != nil {
		return Metadata{}, err
	}
	info, err := r.fs.Stat(abs)
	if err != nil {
		return Metadata{}, wrapErr("metadata", p, err)
	}
	mod := info.ModTime()
	return Metadata{
		Size:        info.Size(),
		Modified:    &mod,
		IsDirectory: info.IsDir(),
	}, nil
}

// resolve validates a vault-relative path and returns its rooted form.
func resolve(op, p string) (string, error) {
	slash := filepathToSlash(p)
	if strings.TrimSpace(slash) == "" {
		return "", &Error{Kind: KindInvalidPath, Op: op, Path: p}
	}
	if strings.HasPrefix(slash, "/") || strings.HasPrefix(path.Clean(slash), "..") {
		return "", &Error{Kind: KindInvalidPath, Op: op, Path: p}
	}
	return "/" + path.Clean(slash), nil
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Pattern is a compiled List pattern. "*" stays within one path segment
// and a "**" segment matches zero or more segments.
type Pattern struct {
	globs []glob.Glob
}

// CompilePattern compiles a slash-separated glob pattern.
func CompilePattern(pattern string) (*Pattern, error) {
	var p Pattern
	for _, alt := range expandSuper(strings.Split(pattern, "/")) {
		g, err := glob.Compile(alt, '/')
		if err != nil {
			return nil, err
		}
		p.globs = append(p.globs, g)
	}
	return &p, nil
}

// Match reports whether the slash-separated name matches p.
func (p *Pattern) Match(name string) bool {
	for _, g := range p.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Match reports whether name matches pattern. Invalid patterns match nothing.
func Match(pattern, name string) bool {
	p, err := CompilePattern(pattern)
	if err != nil {
		return false
	}
	return p.Match(name)
}

// expandSuper returns the pattern with every inner "**" segment both kept and
// dropped. glob requires the separator around "**" to be present, so
// "a/**/c" alone would not match "a/c".
func expandSuper(segs []string) []string {
	for i := 0; i < len(segs)-1; i++ {
		if segs[i] != "**" {
			continue
		}
		keep := strings.Join(segs[:i+1], "/") + "/"
		drop := strings.Join(segs[:i], "/")
		if drop != "" {
			drop += "/"
		}
		var out []string
		for _, tail := range expandSuper(segs[i+1:]) {
			out = append(out, keep+tail, drop+tail)
		}
		return out
	}
	return []string{strings.Join(segs, "/")}
}
