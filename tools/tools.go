//go:build tools

// Package tools tracks tool dependencies in go.mod.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
