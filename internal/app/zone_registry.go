package app

import (
	"context"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
	"github.com/jsamuelsen/metadata-access-client/internal/platform/logging"
)

// ZoneRegistry is an in-memory zone store that raises the same typed
// failures a metadata server reports. It backs the stand-in server.
type ZoneRegistry struct {
	mu    sync.RWMutex
	zones map[string]*domain.GovernanceZone

	// authorized is nil when every user may call.
	authorized map[string]struct{}
	logger     *slog.Logger
}

// ZoneRegistryConfig configures a ZoneRegistry.
type ZoneRegistryConfig struct {
	// AuthorizedUsers limits which users may call. Empty allows everyone.
	AuthorizedUsers []string

	Logger *slog.Logger
}

// NewZoneRegistry creates an empty registry.
func NewZoneRegistry(cfg ZoneRegistryConfig) *ZoneRegistry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var authorized map[string]struct{}
	if len(cfg.AuthorizedUsers) > 0 {
		authorized = make(map[string]struct{}, len(cfg.AuthorizedUsers))
		for _, u := range cfg.AuthorizedUsers {
			authorized[u] = struct{}{}
		}
	}

	return &ZoneRegistry{
		zones:      make(map[string]*domain.GovernanceZone),
		authorized: authorized,
		logger:     logger.With(slog.String("component", "app.ZoneRegistry")),
	}
}

// Authorize fails with Unauthorized when userID may not call operation.
func (r *ZoneRegistry) Authorize(userID, operation string) error {
	if userID == "" {
		return domain.NewUnauthorizedError(domain.CodeNullUserID, operation)
	}

	if r.authorized == nil {
		return nil
	}

	if _, ok := r.authorized[userID]; !ok {
		return domain.NewUnauthorizedError(domain.CodeUserNotAuthorized, operation, userID)
	}

	return nil
}

// Create stores a new zone in DRAFT status.
func (r *ZoneRegistry) Create(
	ctx context.Context, userID string, props domain.ZoneProperties,
) (*domain.GovernanceZone, error) {
	const op = domain.OpCreateZone

	if err := r.Authorize(userID, op); err != nil {
		return nil, err
	}

	if strings.TrimSpace(props.QualifiedName) == "" {
		return nil, domain.NewInvalidParameterError(domain.CodeNullName, op, "qualifiedName")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.byQualifiedName(props.QualifiedName); existing != nil {
		return nil, domain.NewDuplicateValueError(domain.CodeDuplicateZoneName, op,
			[]domain.ElementStub{existing.Stub()}, props.QualifiedName)
	}

	zone := &domain.GovernanceZone{
		GUID:       uuid.NewString(),
		Status:     domain.ZoneStatusDraft,
		Properties: cloneProperties(props),
	}
	r.zones[zone.GUID] = zone

	logging.FromContext(ctx).InfoContext(ctx, "zone created",
		slog.String("zone_guid", zone.GUID),
		slog.String("qualified_name", props.QualifiedName))

	return cloneZone(zone), nil
}

// Update replaces the zone's properties. With merge set, only non-empty
// fields are applied and additional properties are merged key by key.
func (r *ZoneRegistry) Update(
	ctx context.Context, userID, guid string, props domain.ZoneProperties, merge bool,
) error {
	const op = domain.OpUpdateZone

	if err := r.Authorize(userID, op); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	zone, err := r.lookup(guid, op)
	if err != nil {
		return err
	}

	updated := cloneProperties(props)
	if merge {
		updated = mergeProperties(zone.Properties, props)
	}

	if strings.TrimSpace(updated.QualifiedName) == "" {
		return domain.NewInvalidParameterError(domain.CodeNullName, op, "qualifiedName")
	}

	if other := r.byQualifiedName(updated.QualifiedName); other != nil && other.GUID != guid {
		return domain.NewDuplicateValueError(domain.CodeDuplicateZoneName, op,
			[]domain.ElementStub{other.Stub()}, updated.QualifiedName)
	}

	zone.Properties = updated

	logging.FromContext(ctx).DebugContext(ctx, "zone updated",
		slog.String("zone_guid", guid), slog.Bool("merge", merge))

	return nil
}

// SetStatus changes the zone's lifecycle status.
func (r *ZoneRegistry) SetStatus(ctx context.Context, userID, guid string, status domain.ZoneStatus) error {
	const op = domain.OpUpdateZoneStatus

	if err := r.Authorize(userID, op); err != nil {
		return err
	}

	if status == domain.ZoneStatusUnset {
		return domain.NewInvalidParameterError(domain.CodeNullEnum, op, "status")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	zone, err := r.lookup(guid, op)
	if err != nil {
		return err
	}

	zone.Status = status

	logging.FromContext(ctx).DebugContext(ctx, "zone status changed",
		slog.String("zone_guid", guid), slog.String("status", status.String()))

	return nil
}

// Delete removes the zone.
func (r *ZoneRegistry) Delete(ctx context.Context, userID, guid string) error {
	const op = domain.OpDeleteZone

	if err := r.Authorize(userID, op); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.lookup(guid, op); err != nil {
		return err
	}

	delete(r.zones, guid)

	logging.FromContext(ctx).InfoContext(ctx, "zone deleted", slog.String("zone_guid", guid))

	return nil
}

// Get returns a copy of the zone.
func (r *ZoneRegistry) Get(_ context.Context, userID, guid string) (*domain.GovernanceZone, error) {
	const op = domain.OpFetchZone

	if err := r.Authorize(userID, op); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	zone, err := r.lookup(guid, op)
	if err != nil {
		return nil, err
	}

	return cloneZone(zone), nil
}

// FindByName returns the zones whose qualified or display name matches the
// regular expression name, ordered by qualified name.
func (r *ZoneRegistry) FindByName(
	_ context.Context, userID, name string, startFrom, pageSize int,
) ([]*domain.GovernanceZone, error) {
	const op = domain.OpFetchZonesByName

	if err := r.Authorize(userID, op); err != nil {
		return nil, err
	}

	pattern, err := regexp.Compile(name)
	if err != nil {
		return nil, domain.NewInvalidParameterError(domain.CodeInvalidRequestBody, op, "name", err.Error())
	}

	return r.page(startFrom, pageSize, func(z *domain.GovernanceZone) bool {
		return pattern.MatchString(z.Properties.QualifiedName) || pattern.MatchString(z.Properties.DisplayName)
	}), nil
}

// ListForDomain returns the zones of a governance domain. Domain 0 matches
// every zone.
func (r *ZoneRegistry) ListForDomain(
	_ context.Context, userID string, domainIdentifier, startFrom, pageSize int,
) ([]*domain.GovernanceZone, error) {
	const op = domain.OpListZonesForDomain

	if err := r.Authorize(userID, op); err != nil {
		return nil, err
	}

	return r.page(startFrom, pageSize, func(z *domain.GovernanceZone) bool {
		return domainIdentifier == 0 || z.Properties.DomainIdentifier == domainIdentifier
	}), nil
}

// Len returns the number of stored zones.
func (r *ZoneRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.zones)
}

// lookup must be called with the lock held.
func (r *ZoneRegistry) lookup(guid, operation string) (*domain.GovernanceZone, error) {
	zone, ok := r.zones[guid]
	if !ok {
		return nil, domain.NewUnrecognizedIdentifierError(
			domain.CodeUnknownZone, operation, guid, domain.ZoneTypeName, guid)
	}

	return zone, nil
}

// byQualifiedName must be called with the lock held.
func (r *ZoneRegistry) byQualifiedName(name string) *domain.GovernanceZone {
	for _, z := range r.zones {
		if z.Properties.QualifiedName == name {
			return z
		}
	}

	return nil
}

// page returns the matching zones in qualified-name order. A page size of
// 0 returns everything from startFrom on.
func (r *ZoneRegistry) page(startFrom, pageSize int, match func(*domain.GovernanceZone) bool) []*domain.GovernanceZone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.GovernanceZone, 0, len(r.zones))
	for _, z := range r.zones {
		if match(z) {
			matched = append(matched, z)
		}
	}

	slices.SortFunc(matched, func(a, b *domain.GovernanceZone) int {
		return strings.Compare(a.Properties.QualifiedName, b.Properties.QualifiedName)
	})

	if startFrom >= len(matched) {
		return []*domain.GovernanceZone{}
	}

	matched = matched[startFrom:]
	if pageSize > 0 && pageSize < len(matched) {
		matched = matched[:pageSize]
	}

	out := make([]*domain.GovernanceZone, len(matched))
	for i, z := range matched {
		out[i] = cloneZone(z)
	}

	return out
}

func cloneZone(z *domain.GovernanceZone) *domain.GovernanceZone {
	c := *z
	c.Properties = cloneProperties(z.Properties)

	return &c
}

func cloneProperties(p domain.ZoneProperties) domain.ZoneProperties {
	p.AdditionalProperties = maps.Clone(p.AdditionalProperties)

	return p
}

func mergeProperties(base, update domain.ZoneProperties) domain.ZoneProperties {
	merged := cloneProperties(base)

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&merged.QualifiedName, update.QualifiedName)
	set(&merged.DisplayName, update.DisplayName)
	set(&merged.Description, update.Description)
	set(&merged.Criteria, update.Criteria)
	set(&merged.Scope, update.Scope)

	if update.DomainIdentifier != 0 {
		merged.DomainIdentifier = update.DomainIdentifier
	}

	if len(update.AdditionalProperties) > 0 {
		if merged.AdditionalProperties == nil {
			merged.AdditionalProperties = make(map[string]string, len(update.AdditionalProperties))
		}

		maps.Copy(merged.AdditionalProperties, update.AdditionalProperties)
	}

	return merged
}
