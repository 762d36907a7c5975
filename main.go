// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors
//
// evomin - a CLI tool for driving and monitoring the evomin framed byte
// protocol, with commands for live monitoring, one-shot sends, and
// capture/replay of recorded traffic.

package main

import (
	"fmt"
	"os"

	"github.com/coldforge/evomin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
