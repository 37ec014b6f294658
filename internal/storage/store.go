// Package storage persists sites, builds, and bundles. The pipeline
// depends only on the Store interface; adapters (SQLite, in-memory)
// plug in underneath it.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

// SiteRow is the durable record for one site.
type SiteRow struct {
	ID         string
	BusinessID string
	OwnerID    string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BuildRow is the durable record for one pipeline run.
type BuildRow struct {
	ID         string
	SiteID     string
	Mode       string
	Prompt     string
	Status     string
	Warnings   int
	Errors     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// BundleRow is the persisted bundle artifact: the sole externally
// durable output of a successful run.
type BundleRow struct {
	SiteID     string
	BuildID    string
	Version    string
	BundleJSON []byte
	CreatedAt  time.Time
}

// Store is the persistence collaborator consumed by the pipeline. Every
// method is a single-record operation keyed by site or build id; errors
// propagate to the caller and surface as stage failures.
type Store interface {
	CreateSite(ctx context.Context, site SiteRow) error
	GetSite(ctx context.Context, siteID string) (*SiteRow, error)
	UpdateSite(ctx context.Context, site SiteRow) error
	CreateBuild(ctx context.Context, build BuildRow) error
	GetBuild(ctx context.Context, buildID string) (*BuildRow, error)
	UpdateBuild(ctx context.Context, build BuildRow) error
	SaveBundle(ctx context.Context, row BundleRow) error
	GetBundle(ctx context.Context, siteID, buildID string) (*BundleRow, error)
	GetLatestBundle(ctx context.Context, siteID string) (*BundleRow, error)
}

// EventSink receives build lifecycle events for durable audit. Kept
// separate from Store so the pipeline contract stays minimal.
type EventSink interface {
	AppendBuildEvent(ctx context.Context, buildID, eventType string, payload []byte) error
}
