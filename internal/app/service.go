// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Wire formats (that's the access layer)
//   - Core domain logic (that's the domain layer)
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
	"github.com/jsamuelsen/metadata-access-client/internal/ports"
)

// defaultFetchConcurrency bounds parallel fetches when none is configured.
const defaultFetchConcurrency = 4

// ZoneService orchestrates governance-zone use cases over a ZoneClient.
// Failures are returned unchanged so callers can switch on the variant.
//
// Example usage:
//
//	zones, _ := acl.NewZoneClient(cfg)
//	svc := app.NewZoneService(app.ZoneServiceConfig{Zones: zones, Logger: logger})
//	guid, err := svc.EnsureZone(ctx, userID, props)
type ZoneService struct {
	zones       ports.ZoneClient
	concurrency int
	logger      *slog.Logger
}

// ZoneServiceConfig contains configuration for the zone service.
type ZoneServiceConfig struct {
	Zones ports.ZoneClient

	// FetchConcurrency bounds FetchZones. Zero uses a default.
	FetchConcurrency int

	Logger *slog.Logger
}

// NewZoneService creates a new zone service.
// Panics if Zones is nil. Defaults logger to slog.Default() if nil.
func NewZoneService(cfg ZoneServiceConfig) *ZoneService {
	if cfg.Zones == nil {
		panic("ZoneService: Zones is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.FetchConcurrency
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}

	return &ZoneService{
		zones:       cfg.Zones,
		concurrency: concurrency,
		logger:      logger.With(slog.String("component", "app.ZoneService")),
	}
}

// Zones returns the underlying client for single-call use cases.
func (s *ZoneService) Zones() ports.ZoneClient {
	return s.zones
}

// EnsureZone creates the zone, or returns the identifier of the zone that
// already holds its qualified name.
func (s *ZoneService) EnsureZone(ctx context.Context, userID string, props *domain.ZoneProperties) (string, bool, error) {
	guid, err := s.zones.CreateZone(ctx, userID, props)
	if err == nil {
		s.logger.InfoContext(ctx, "zone created", slog.String("zone_guid", guid))

		return guid, true, nil
	}

	var dup *domain.DuplicateValueError
	if errors.As(err, &dup) && len(dup.Duplicates) > 0 {
		existing := dup.Duplicates[0].GUID
		s.logger.InfoContext(ctx, "zone already exists", slog.String("zone_guid", existing))

		return existing, false, nil
	}

	s.logger.ErrorContext(ctx, "failed to create zone", slog.Any("error", err))

	return "", false, err
}

// FetchZones fetches several zones concurrently. Every identifier yields
// either a zone or its own failure.
func (s *ZoneService) FetchZones(
	ctx context.Context, userID string, guids []string,
) []PartialResult[*domain.GovernanceZone] {
	return FetchEach(ctx, s.concurrency, guids,
		func(ctx context.Context, guid string) (*domain.GovernanceZone, error) {
			return s.zones.FetchZone(ctx, userID, guid)
		})
}

// ListAllZones pages through every zone of a governance domain. Paging
// ends on an empty page, or on a page shorter than the size the client
// actually requested when it reports one.
func (s *ZoneService) ListAllZones(
	ctx context.Context, userID string, domainIdentifier, pageSize int,
) ([]*domain.GovernanceZone, error) {
	var all []*domain.GovernanceZone

	effective := 0
	if ps, ok := s.zones.(ports.PageSizer); ok {
		effective = ps.EffectivePageSize(pageSize)
	}

	for {
		page, err := s.zones.ListZonesForDomain(ctx, userID, domainIdentifier, len(all), pageSize)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to list zones",
				slog.Int("start_from", len(all)),
				slog.Any("error", err),
			)

			return nil, err
		}

		all = append(all, page...)

		if len(page) == 0 || (effective > 0 && len(page) < effective) {
			break
		}
	}

	s.logger.DebugContext(ctx, "listed zones", slog.Int("count", len(all)))

	return all, nil
}
