// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command envcompose prints a base config merged with an environment config.
package main

import (
	"context"
	"os"

	"github.com/z5labs/envcompose/internal/cli"
)

func main() {
	err := cli.Run(context.Background(), os.Args[1:]...)
	if err != nil {
		os.Exit(1)
	}
}
