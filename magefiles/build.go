//go:build mage

// Copyright (c) 2026 InterWorkAlliance. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for tokendesigner using Mage.
//
// Usage:
//
//	mage build       Compile tokendesigner to bin/
//	mage test:all    Run every test
//	mage test:race   Run every test with the race detector
//	mage test:cover  Run tests and write coverage.out
//	mage lint        Check gofmt, then run golangci-lint
//	mage fmt         List files gofmt would change
//	mage vet         Run go vet
//	mage clean       Remove build artifacts
//	mage install     Install tokendesigner to GOPATH/bin
//	mage stats       Print Go line counts per package
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo       = "go"
	binaryName  = "tokendesigner"
	binaryDir   = "bin"
	cmdDir      = "./cmd/tokendesigner"
	versionVar  = "github.com/InterWorkAlliance/visual-token-designer/internal/cli.Version"
	versionFile = "VERSION"
)

// ldflags stamps the CLI version from the VERSION file, when present.
func ldflags() string {
	data, err := os.ReadFile(versionFile)
	if err != nil {
		return ""
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return ""
	}
	return "-X " + versionVar + "=" + v
}

// Build compiles the tokendesigner binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if f := ldflags(); f != "" {
		args = append(args, "-ldflags", f)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, coverFile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}
