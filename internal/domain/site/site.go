package site

import (
	"context"
	"errors"
)

var ErrSiteNotFound = errors.New("site: not found")

type SiteID string

// Site is immutable reference data loaded from configuration; the engine never
// mutates it.
type Site struct {
	ID           SiteID
	Name         string
	Type         string
	BasePrice    int64
	MaxOccupancy int
	Features     []string
}

type Repository interface {
	ByID(ctx context.Context, id SiteID) (*Site, error)
	All(ctx context.Context) ([]*Site, error)
}
