//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for arxiv-authors developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

const (
	binDir      = "bin"
	binName     = "arxiv-authors"
	cmdPkg      = "./cmd/arxiv-authors"
	authorsDir  = "AUTHORS"
	authorsFile = "authors.csv"
	csvHeader   = "last-name,first-name\n"
)

// Default builds the CLI when mage runs without a target.
var Default = Build

// Init creates AUTHORS/ and an authors.csv holding only the header. An
// existing name list is left alone.
func Init() error {
	if err := os.MkdirAll(authorsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", authorsDir, err)
	}
	fmt.Println("  ", authorsDir)

	if _, err := os.Stat(authorsFile); err == nil {
		fmt.Println("  ", authorsFile, "(exists)")
		return nil
	}
	if err := os.WriteFile(authorsFile, []byte(csvHeader), 0o644); err != nil {
		return fmt.Errorf("creating %s: %w", authorsFile, err)
	}
	fmt.Println("  ", authorsFile)
	fmt.Println("Project initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := binPath()
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

func binPath() string {
	return filepath.Join(binDir, binName)
}

// Stats prints Go production and test line counts and the size of the cache.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)

	authors, listings, pages, err := countCache(authorsDir)
	if err != nil {
		return err
	}
	fmt.Printf("Cached authors:                 %d\n", authors)
	fmt.Printf("Cached API listings:            %d\n", listings)
	fmt.Printf("Cached abstract pages:          %d\n", pages)
	return nil
}

// countGoLines counts non-blank lines in Go files, split into production
// and test files. Hidden and underscore-prefixed directories are skipped.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := nonBlankLines(data)
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

func nonBlankLines(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n
}

// countCache reports author directories, API listings, and abstract pages
// under dir. A missing dir counts as empty.
func countCache(dir string) (authors, listings, pages int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, 0, nil
		}
		return 0, 0, 0, err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		authors++
		api, _ := filepath.Glob(filepath.Join(dir, e.Name(), "API", "*.xml"))
		html, _ := filepath.Glob(filepath.Join(dir, e.Name(), "HTML", "*.html"))
		listings += len(api)
		pages += len(html)
	}
	return authors, listings, pages, nil
}

// ensureInit runs Init when the name list is missing.
func ensureInit() error {
	if _, err := os.Stat(authorsFile); err == nil {
		return nil
	}
	return Init()
}
