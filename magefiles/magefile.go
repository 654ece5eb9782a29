//go:build mage

// Package main contains Mage build targets for docdim developer tooling.
// Implements: DESIGN.md § Layout (build, test, schema check, stats).
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/afero"
)

const (
	binDir  = "bin"
	binName = "docdim"
	cmdPkg  = "./cmd/docdim"

	schemaDir = "internal/schema/schemas"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	mg.Deps(Schemas)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Schemas checks that the embedded JSON Schemas compile.
func Schemas() error {
	files, err := filepath.Glob(filepath.Join(schemaDir, "*.schema.json"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no schemas found in %s", schemaDir)
	}
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f, err)
		}
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		url := "file:///" + filepath.ToSlash(f)
		if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
		if _, err := c.Compile(url); err != nil {
			return fmt.Errorf("compiling %s: %w", f, err)
		}
		fmt.Println("  ok", f)
	}
	return nil
}

// Stats prints Go line counts per package and the word count of the
// Markdown documents at the repository root.
func Stats() error {
	pkgs, err := goLinesByPackage(afero.NewOsFs(), ".")
	if err != nil {
		return err
	}
	dirs := make([]string, 0, len(pkgs))
	for d := range pkgs {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var total lineCount
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "package\tcode\ttests")
	for _, d := range dirs {
		c := pkgs[d]
		total.code += c.code
		total.tests += c.tests
		fmt.Fprintf(w, "%s\t%d\t%d\n", d, c.code, c.tests)
	}
	fmt.Fprintf(w, "total\t%d\t%d\n", total.code, total.tests)
	if err := w.Flush(); err != nil {
		return err
	}

	words, err := markdownWords(afero.NewOsFs(), ".")
	if err != nil {
		return err
	}
	fmt.Printf("\nMarkdown words: %d\n", words)
	return nil
}

type lineCount struct {
	code, tests int
}

// goLinesByPackage counts non-blank Go lines under root, keyed by package
// directory. Vendored examples and hidden directories are skipped.
func goLinesByPackage(fsys afero.Fs, root string) (map[string]lineCount, error) {
	out := map[string]lineCount{}
	err := afero.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if info.IsDir() {
			if p != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") {
			return nil
		}
		n, err := nonBlankLines(fsys, p)
		if err != nil {
			return err
		}
		dir := filepath.ToSlash(filepath.Dir(p))
		c := out[dir]
		if strings.HasSuffix(name, "_test.go") {
			c.tests += n
		} else {
			c.code += n
		}
		out[dir] = c
		return nil
	})
	return out, err
}

func nonBlankLines(fsys afero.Fs, p string) (int, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", p, err)
	}
	return n, nil
}

func markdownWords(fsys afero.Fs, root string) (int, error) {
	files, err := afero.Glob(fsys, filepath.Join(root, "*.md"))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, f := range files {
		data, err := afero.ReadFile(fsys, f)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", f, err)
		}
		total += len(strings.Fields(string(data)))
	}
	return total, nil
}
