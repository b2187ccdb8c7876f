//go:build !debug_assert
// +build !debug_assert

package internal

const assertsEnabled = false
