package acl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/clients"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
	"github.com/jsamuelsen/metadata-access-client/internal/platform/config"
	"github.com/jsamuelsen/metadata-access-client/internal/platform/logging"
)

// ZoneClientName names the client in configuration failures.
const ZoneClientName = "GovernanceZone"

// URL templates. {0} is the server name and {1} the user id.
const (
	zonesURL          = "/servers/{0}/open-metadata/access-services/governance-program/users/{1}/governance-zones"
	updateZoneURL     = zonesURL + "/{2}?isMergeUpdate={3}"
	zoneStatusURL     = zonesURL + "/{2}/status"
	deleteZoneURL     = zonesURL + "/{2}/delete"
	fetchZoneURL      = zonesURL + "/{2}"
	zonesByNameURL    = zonesURL + "/by-name?startFrom={2}&pageSize={3}"
	zonesForDomainURL = zonesURL + "/for-domain?domain={2}&startFrom={3}&pageSize={4}"
)

// Parameter names echoed in validation failures.
const (
	paramZoneGUID   = "zoneGUID"
	paramProperties = "properties"
	paramQualified  = "qualifiedName"
	paramStatus     = "status"
	paramName       = "name"
)

// healthCheckUser is used by Check when no credentials are configured.
const healthCheckUser = "healthcheck"

// Credentials are the basic credentials sent on every call.
type Credentials struct {
	UserID   string `validate:"required"`
	Password string
}

// ZoneClientConfig configures a ZoneClient. It is validated once by
// NewZoneClient.
type ZoneClientConfig struct {
	// Client is a pre-built transport. When nil, one is built from
	// PlatformURL, Timeout and Credentials.
	Client *clients.Client

	// PlatformURL is the root URL of the platform hosting the server.
	// Defaults to the base URL of Client when Client is set.
	PlatformURL string `validate:"required,url"`

	// ServerName is the metadata server the calls are addressed to.
	ServerName string `validate:"required"`

	Credentials *Credentials

	// DefaultPageSize applies when the caller asks for page size 0 and the
	// client has no ceiling.
	DefaultPageSize int `validate:"min=0"`

	// MaxPageSize is the page size ceiling. Zero means unlimited.
	MaxPageSize int `validate:"min=0"`

	Timeout time.Duration `validate:"min=0"`

	Logger *slog.Logger
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// validate maps configuration problems onto the client configuration codes.
func (cfg *ZoneClientConfig) validate() error {
	err := configValidator.Struct(cfg)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fe := verrs[0]

		switch {
		case fe.StructField() == "ServerName":
			return domain.NewPropertyServerError(domain.CodeNullServerName, ZoneClientName, nil)
		case fe.StructField() == "PlatformURL" && fe.Tag() == "required":
			return domain.NewPropertyServerError(
				domain.CodeServerURLNotSpecified, ZoneClientName, nil, cfg.ServerName)
		case fe.StructField() == "PlatformURL":
			return domain.NewPropertyServerError(
				domain.CodeServerURLMalformed, ZoneClientName, nil, cfg.PlatformURL)
		default:
			return domain.NewPropertyServerError(domain.CodeInvalidClientConfig, ZoneClientName, err,
				fmt.Sprintf("%s failed the %s check", fe.Namespace(), fe.Tag()))
		}
	}

	if err != nil {
		return domain.NewPropertyServerError(domain.CodeInvalidClientConfig, ZoneClientName, err, err.Error())
	}

	if cfg.MaxPageSize > 0 && cfg.DefaultPageSize > cfg.MaxPageSize {
		return domain.NewPropertyServerError(domain.CodeInvalidClientConfig, ZoneClientName, nil,
			fmt.Sprintf("default page size %d exceeds the ceiling %d", cfg.DefaultPageSize, cfg.MaxPageSize))
	}

	return nil
}

// ZoneClient manages governance zones on a metadata server. Every operation
// validates its parameters before any network attempt, makes one call, and
// returns either the translated payload or a domain.TypedFailure.
//
// A ZoneClient is immutable and safe for concurrent use.
type ZoneClient struct {
	*Caller

	serverName string
	healthUser string
	paging     PagingPolicy
	logger     *slog.Logger
}

// NewZoneClient validates cfg and creates a client. Misconfiguration is
// reported as a domain.PropertyServerError.
func NewZoneClient(cfg ZoneClientConfig) (*ZoneClient, error) {
	if cfg.Client != nil && cfg.PlatformURL == "" {
		cfg.PlatformURL = cfg.Client.BaseURL()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "acl.ZoneClient"),
		slog.String("server_name", cfg.ServerName),
	)

	client := cfg.Client
	if client == nil {
		clientCfg := &clients.Config{
			BaseURL:     cfg.PlatformURL,
			ServiceName: cfg.ServerName,
			Timeout:     cfg.Timeout,
			Logger:      logger,
		}

		if cfg.Credentials != nil {
			clientCfg.AuthFunc = clients.BasicAuth(cfg.Credentials.UserID, cfg.Credentials.Password)
		}

		var err error

		client, err = clients.New(clientCfg)
		if err != nil {
			return nil, domain.NewPropertyServerError(domain.CodeInvalidClientConfig, ZoneClientName, err, err.Error())
		}
	}

	caller, err := NewCaller(client, cfg.ServerName, logger)
	if err != nil {
		return nil, domain.NewPropertyServerError(domain.CodeInvalidClientConfig, ZoneClientName, err, err.Error())
	}

	healthUser := healthCheckUser
	if cfg.Credentials != nil {
		healthUser = cfg.Credentials.UserID
	}

	defaultPageSize := cfg.DefaultPageSize
	if defaultPageSize == 0 {
		defaultPageSize = config.DefaultPageSize
	}

	return &ZoneClient{
		Caller:     caller,
		serverName: cfg.ServerName,
		healthUser: healthUser,
		paging:     PagingPolicy{DefaultPageSize: defaultPageSize, MaxPageSize: cfg.MaxPageSize},
		logger:     logger,
	}, nil
}

// zonePropertiesDTO is the wire form of domain.ZoneProperties.
type zonePropertiesDTO struct {
	QualifiedName        string            `json:"qualifiedName"`
	DisplayName          string            `json:"displayName,omitempty"`
	Description          string            `json:"description,omitempty"`
	Criteria             string            `json:"criteria,omitempty"`
	Scope                string            `json:"scope,omitempty"`
	DomainIdentifier     int               `json:"domainIdentifier,omitempty"`
	AdditionalProperties map[string]string `json:"additionalProperties,omitempty"`
}

// zoneElementDTO is the wire form of a stored zone.
type zoneElementDTO struct {
	GUID       string            `json:"guid"`
	Status     string            `json:"status"`
	Properties zonePropertiesDTO `json:"properties"`
}

type zoneRequestBody struct {
	Properties zonePropertiesDTO `json:"properties"`
}

type statusRequestBody struct {
	Status string `json:"status"`
}

type nameRequestBody struct {
	Name string `json:"name"`
}

type emptyRequestBody struct{}

type guidResponse struct {
	GUID string `json:"guid"`
}

type zoneResponse struct {
	Element *zoneElementDTO `json:"element"`
}

type zoneListResponse struct {
	Elements []zoneElementDTO `json:"elements"`
}

// CreateZone creates a zone and returns its unique identifier.
func (c *ZoneClient) CreateZone(ctx context.Context, userID string, props *domain.ZoneProperties) (string, error) {
	const op = domain.OpCreateZone

	if err := ValidateIdentity(userID, op); err != nil {
		return "", err
	}

	if err := ValidateProperties(props, paramProperties, op); err != nil {
		return "", err
	}

	if err := ValidateName(props.QualifiedName, paramQualified, op); err != nil {
		return "", err
	}

	resp, err := Invoke[guidResponse](ctx, c.Caller, op, zonesURL,
		[]any{c.serverName, userID},
		zoneRequestBody{Properties: propertiesToWire(props)},
		domain.KindInvalidParameter, domain.KindUnauthorized, domain.KindDuplicateValue)
	if err != nil {
		return "", err
	}

	c.logger.Log(ctx, logging.LevelTrace, "zone created", slog.String("zone_guid", resp.GUID))

	return resp.GUID, nil
}

// UpdateZone replaces the zone's properties, or merges the non-empty ones
// when isMergeUpdate is set.
func (c *ZoneClient) UpdateZone(
	ctx context.Context, userID, zoneGUID string, props *domain.ZoneProperties, isMergeUpdate bool,
) error {
	const op = domain.OpUpdateZone

	if err := ValidateIdentity(userID, op); err != nil {
		return err
	}

	if err := ValidateIdentifier(zoneGUID, paramZoneGUID, domain.ZoneTypeName, op); err != nil {
		return err
	}

	if err := ValidateProperties(props, paramProperties, op); err != nil {
		return err
	}

	if !isMergeUpdate {
		if err := ValidateName(props.QualifiedName, paramQualified, op); err != nil {
			return err
		}
	}

	_, err := Invoke[guidResponse](ctx, c.Caller, op, updateZoneURL,
		[]any{c.serverName, userID, zoneGUID, strconv.FormatBool(isMergeUpdate)},
		zoneRequestBody{Properties: propertiesToWire(props)},
		domain.KindInvalidParameter, domain.KindUnauthorized,
		domain.KindUnrecognizedIdentifier, domain.KindDuplicateValue)

	return err
}

// UpdateZoneStatus moves the zone to a new lifecycle status.
func (c *ZoneClient) UpdateZoneStatus(ctx context.Context, userID, zoneGUID string, status domain.ZoneStatus) error {
	const op = domain.OpUpdateZoneStatus

	if err := ValidateIdentity(userID, op); err != nil {
		return err
	}

	if err := ValidateIdentifier(zoneGUID, paramZoneGUID, domain.ZoneTypeName, op); err != nil {
		return err
	}

	if err := ValidateEnum(status, paramStatus, op); err != nil {
		return err
	}

	_, err := Invoke[guidResponse](ctx, c.Caller, op, zoneStatusURL,
		[]any{c.serverName, userID, zoneGUID},
		statusRequestBody{Status: status.String()},
		domain.KindInvalidParameter, domain.KindUnauthorized, domain.KindUnrecognizedIdentifier)

	return err
}

// DeleteZone removes the zone.
func (c *ZoneClient) DeleteZone(ctx context.Context, userID, zoneGUID string) error {
	const op = domain.OpDeleteZone

	if err := ValidateIdentity(userID, op); err != nil {
		return err
	}

	if err := ValidateIdentifier(zoneGUID, paramZoneGUID, domain.ZoneTypeName, op); err != nil {
		return err
	}

	_, err := Invoke[guidResponse](ctx, c.Caller, op, deleteZoneURL,
		[]any{c.serverName, userID, zoneGUID},
		emptyRequestBody{},
		domain.KindInvalidParameter, domain.KindUnauthorized, domain.KindUnrecognizedIdentifier)

	return err
}

// FetchZone returns the zone with the given unique identifier.
func (c *ZoneClient) FetchZone(ctx context.Context, userID, zoneGUID string) (*domain.GovernanceZone, error) {
	const op = domain.OpFetchZone

	if err := ValidateIdentity(userID, op); err != nil {
		return nil, err
	}

	if err := ValidateIdentifier(zoneGUID, paramZoneGUID, domain.ZoneTypeName, op); err != nil {
		return nil, err
	}

	params := []any{c.serverName, userID, zoneGUID}

	resp, err := Invoke[zoneResponse](ctx, c.Caller, op, fetchZoneURL,
		params,
		nil,
		domain.KindInvalidParameter, domain.KindUnauthorized, domain.KindUnrecognizedIdentifier)
	if err != nil {
		return nil, err
	}

	if resp.Element == nil {
		return nil, unexpectedResponse(op, c.Endpoint(fetchZoneURL, params...), 0, "response has no element")
	}

	return translateToDomain(resp.Element), nil
}

// EffectivePageSize returns the page size list operations request when the
// caller asks for pageSize.
func (c *ZoneClient) EffectivePageSize(pageSize int) int {
	return c.paging.Effective(pageSize)
}

// FetchZonesByName returns the zones whose qualified or display name
// matches name, one page at a time.
func (c *ZoneClient) FetchZonesByName(
	ctx context.Context, userID, name string, startFrom, pageSize int,
) ([]*domain.GovernanceZone, error) {
	const op = domain.OpFetchZonesByName

	if err := ValidateIdentity(userID, op); err != nil {
		return nil, err
	}

	if err := ValidateName(name, paramName, op); err != nil {
		return nil, err
	}

	pageSize, err := c.paging.Validate(startFrom, pageSize, op)
	if err != nil {
		return nil, err
	}

	resp, err := Invoke[zoneListResponse](ctx, c.Caller, op, zonesByNameURL,
		[]any{c.serverName, userID, startFrom, pageSize},
		nameRequestBody{Name: name},
		domain.KindInvalidParameter, domain.KindUnauthorized)
	if err != nil {
		return nil, err
	}

	return TranslateSlice(resp.Elements, translateToDomain), nil
}

// ListZonesForDomain returns the zones of a governance domain. Domain 0
// lists every zone.
func (c *ZoneClient) ListZonesForDomain(
	ctx context.Context, userID string, domainIdentifier, startFrom, pageSize int,
) ([]*domain.GovernanceZone, error) {
	const op = domain.OpListZonesForDomain

	if err := ValidateIdentity(userID, op); err != nil {
		return nil, err
	}

	pageSize, err := c.paging.Validate(startFrom, pageSize, op)
	if err != nil {
		return nil, err
	}

	resp, err := Invoke[zoneListResponse](ctx, c.Caller, op, zonesForDomainURL,
		[]any{c.serverName, userID, domainIdentifier, startFrom, pageSize},
		nil,
		domain.KindInvalidParameter, domain.KindUnauthorized)
	if err != nil {
		return nil, err
	}

	return TranslateSlice(resp.Elements, translateToDomain), nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *ZoneClient) Name() string {
	return "metadata-server"
}

// Check lists a single zone. Any typed answer from the server proves it is
// reachable; only a property server failure fails the check.
// Implements ports.HealthChecker.
func (c *ZoneClient) Check(ctx context.Context) error {
	_, err := c.ListZonesForDomain(ctx, c.healthUser, 0, 0, 1)
	if err != nil && domain.IsPropertyServer(err) {
		return err
	}

	return nil
}

func propertiesToWire(p *domain.ZoneProperties) zonePropertiesDTO {
	return zonePropertiesDTO{
		QualifiedName:        p.QualifiedName,
		DisplayName:          p.DisplayName,
		Description:          p.Description,
		Criteria:             p.Criteria,
		Scope:                p.Scope,
		DomainIdentifier:     p.DomainIdentifier,
		AdditionalProperties: p.AdditionalProperties,
	}
}

// translateToDomain converts the wire element to a domain zone.
func translateToDomain(ext *zoneElementDTO) *domain.GovernanceZone {
	return &domain.GovernanceZone{
		GUID:   ext.GUID,
		Status: domain.ParseZoneStatus(ext.Status),
		Properties: domain.ZoneProperties{
			QualifiedName:        ext.Properties.QualifiedName,
			DisplayName:          ext.Properties.DisplayName,
			Description:          ext.Properties.Description,
			Criteria:             ext.Properties.Criteria,
			Scope:                ext.Properties.Scope,
			DomainIdentifier:     ext.Properties.DomainIdentifier,
			AdditionalProperties: ext.Properties.AdditionalProperties,
		},
	}
}
