// Package notification embeds the notification module schema.
package notification

import (
	"embed"

	"github.com/ghuser/auctionhouse/pkg/migrator"
)

// Table is the goose version table for this module.
const Table = "goose_notification_versions"

//go:embed *.sql
var FS embed.FS

// Module describes the notification schema for migrator.Run.
var Module = migrator.Module{Name: "notification", FS: FS, Table: Table}
