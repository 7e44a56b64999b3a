//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "flashsort"
	mainPkg = "./cmd/flashsort"
)

// Default target to run when none is specified
var Default = Build

func ldflags() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("-X codeberg.org/snonux/flashsort/internal.Version=%s", version)
}

// Build compiles the flashsort binary
func Build() error {
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Vet, Test)
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm(binary)
}
