// Package minesweeperrl holds assets shared by the binaries.
package minesweeperrl

import "embed"

// Migrations holds the Postgres schema under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
