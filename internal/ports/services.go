// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never wire DTOs or infrastructure types
//   - Failures are domain.TypedFailure values
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// ZoneClient manages governance zones on a remote metadata server.
// Every method validates its parameters before any network attempt and
// returns either its result or a domain.TypedFailure.
//
// Example usage:
//
//	zone, err := zones.FetchZone(ctx, userID, guid)
//	if domain.IsUnrecognizedIdentifier(err) {
//	    // the zone is gone
//	}
type ZoneClient interface {
	// CreateZone creates a zone and returns its unique identifier.
	// Fails with InvalidParameter, Unauthorized, DuplicateValue or
	// PropertyServerFailure.
	CreateZone(ctx context.Context, userID string, props *domain.ZoneProperties) (string, error)

	// UpdateZone replaces or merges the zone's properties.
	UpdateZone(ctx context.Context, userID, zoneGUID string, props *domain.ZoneProperties, isMergeUpdate bool) error

	// UpdateZoneStatus moves the zone to a new lifecycle status.
	UpdateZoneStatus(ctx context.Context, userID, zoneGUID string, status domain.ZoneStatus) error

	// DeleteZone removes the zone.
	DeleteZone(ctx context.Context, userID, zoneGUID string) error

	// FetchZone returns the zone with the given unique identifier.
	// Fails with UnrecognizedIdentifier when it does not exist.
	FetchZone(ctx context.Context, userID, zoneGUID string) (*domain.GovernanceZone, error)

	// FetchZonesByName returns a page of zones matching name.
	FetchZonesByName(ctx context.Context, userID, name string, startFrom, pageSize int) ([]*domain.GovernanceZone, error)

	// ListZonesForDomain returns a page of the zones of a governance domain.
	// Domain 0 lists every zone.
	ListZonesForDomain(
		ctx context.Context, userID string, domainIdentifier, startFrom, pageSize int,
	) ([]*domain.GovernanceZone, error)
}

// PageSizer is implemented by zone clients that clamp requested page sizes.
// Callers paging through results compare page lengths against it.
type PageSizer interface {
	EffectivePageSize(pageSize int) int
}

// ZoneRepository stores governance zones on the server side. Implementations
// raise the same typed failures the client decodes.
type ZoneRepository interface {
	// Create stores a new zone. Fails with DuplicateValue when the
	// qualified name is taken.
	Create(ctx context.Context, userID string, props domain.ZoneProperties) (*domain.GovernanceZone, error)

	// Update replaces the zone's properties, or merges the non-empty ones.
	Update(ctx context.Context, userID, guid string, props domain.ZoneProperties, merge bool) error

	// SetStatus changes the zone's lifecycle status.
	SetStatus(ctx context.Context, userID, guid string, status domain.ZoneStatus) error

	// Delete removes the zone.
	Delete(ctx context.Context, userID, guid string) error

	// Get returns the zone. Fails with UnrecognizedIdentifier when absent.
	Get(ctx context.Context, userID, guid string) (*domain.GovernanceZone, error)

	// FindByName returns a page of zones whose qualified or display name
	// matches the regular expression name.
	FindByName(ctx context.Context, userID, name string, startFrom, pageSize int) ([]*domain.GovernanceZone, error)

	// ListForDomain returns a page of the zones of a governance domain.
	ListForDomain(
		ctx context.Context, userID string, domainIdentifier, startFrom, pageSize int,
	) ([]*domain.GovernanceZone, error)
}
