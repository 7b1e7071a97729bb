// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/caminoapp/camino/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
