// Package auction embeds the auction module schema.
package auction

import (
	"embed"

	"github.com/ghuser/auctionhouse/pkg/migrator"
)

// Table is the goose version table for this module.
const Table = "goose_auction_versions"

//go:embed *.sql
var FS embed.FS

// Module describes the auction schema for migrator.Run.
var Module = migrator.Module{Name: "auction", FS: FS, Table: Table}
