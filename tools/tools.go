//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// Air - Live reload for the web server while editing templates and handlers
//   Install: go install github.com/air-verse/air@v1.63.0
//   Run:     air --build.cmd "go build -o ./tmp/scagent-web ./cmd/scagent-web" --build.bin ./tmp/scagent-web
//   Docs: https://github.com/air-verse/air
//
// mockgen - Regenerates the gomock doubles in internal/mocks
//   Run:  go generate ./internal/mocks
//   Docs: https://github.com/uber-go/mock
