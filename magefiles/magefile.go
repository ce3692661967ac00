//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the playnotes project using Mage.
//
// Usage:
//
//	mage build       Compile the playnotes binary to bin/
//	mage install     Install playnotes to GOPATH/bin
//	mage clean       Remove build artifacts
//	mage lint        Run golangci-lint
//	mage vet         Run go vet
//	mage test:all    Run all tests
//	mage test:short  Run tests with -short
//	mage test:race   Run all tests with the race detector
//	mage test:cover  Run all tests and write coverage.out
package main

const (
	binGo      = "go"
	binaryName = "playnotes"
	binaryDir  = "bin"
	cmdDir     = "./cmd/playnotes"
	modulePath = "github.com/mesh-intelligence/playnotes"
)
