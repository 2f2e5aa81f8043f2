//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Harvest fetches every author in authors.csv, reusing cached listings.
func Harvest() error {
	mg.Deps(Build, ensureInit)
	return sh.RunV(binPath())
}

// Sync refetches every author's listing regardless of the cache.
func Sync() error {
	mg.Deps(Build, ensureInit)
	return sh.RunV(binPath(), "--sync-remote")
}

// Add fetches one author and adds them to authors.csv.
func Add(last, first string) error {
	mg.Deps(Build)
	return sh.RunV(binPath(), last, first)
}

// Papers writes papers.csv from the cached listings. Set FIRST_AUTHOR=1 to
// keep only first-author papers.
func Papers() error {
	mg.Deps(Build)
	args := []string{"papers"}
	if os.Getenv("FIRST_AUTHOR") != "" {
		args = append(args, "--first-author")
	}
	return sh.RunV(binPath(), args...)
}
