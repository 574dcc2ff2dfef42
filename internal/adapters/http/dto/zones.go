package dto

import (
	"github.com/jsamuelsen/metadata-access-client/internal/adapters/envelope"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// ZoneProperties is the wire form of the caller-supplied zone attributes.
type ZoneProperties struct {
	QualifiedName        string            `json:"qualifiedName"`
	DisplayName          string            `json:"displayName,omitempty"`
	Description          string            `json:"description,omitempty"`
	Criteria             string            `json:"criteria,omitempty"`
	Scope                string            `json:"scope,omitempty"`
	DomainIdentifier     int               `json:"domainIdentifier,omitempty" validate:"gte=0"`
	AdditionalProperties map[string]string `json:"additionalProperties,omitempty"`
}

// ZoneElement is the wire form of a stored zone.
type ZoneElement struct {
	GUID       string         `json:"guid"`
	Status     string         `json:"status"`
	Properties ZoneProperties `json:"properties"`
}

// ZoneRequest is the body of the create and update operations.
type ZoneRequest struct {
	Properties *ZoneProperties `json:"properties" validate:"required"`
}

// StatusRequest is the body of the status operation.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// NameRequest is the body of the by-name search. Name is a regular
// expression.
type NameRequest struct {
	Name string `json:"name" validate:"notempty"`
}

// VoidResponse answers operations that return nothing but the envelope.
type VoidResponse struct {
	envelope.ResponseEnvelope
}

// GUIDResponse answers the create operation.
type GUIDResponse struct {
	envelope.ResponseEnvelope
	GUID string `json:"guid"`
}

// ZoneResponse answers the fetch operation.
type ZoneResponse struct {
	envelope.ResponseEnvelope
	Element *ZoneElement `json:"element"`
}

// ZoneListResponse answers the search and list operations.
type ZoneListResponse struct {
	envelope.ResponseEnvelope
	Elements []ZoneElement `json:"elements"`
}

// ToDomain converts wire properties to the domain form.
func (p *ZoneProperties) ToDomain() domain.ZoneProperties {
	return domain.ZoneProperties{
		QualifiedName:        p.QualifiedName,
		DisplayName:          p.DisplayName,
		Description:          p.Description,
		Criteria:             p.Criteria,
		Scope:                p.Scope,
		DomainIdentifier:     p.DomainIdentifier,
		AdditionalProperties: p.AdditionalProperties,
	}
}

// NewZoneElement converts a stored zone to its wire form.
func NewZoneElement(z *domain.GovernanceZone) ZoneElement {
	p := z.Properties

	return ZoneElement{
		GUID:   z.GUID,
		Status: z.Status.String(),
		Properties: ZoneProperties{
			QualifiedName:        p.QualifiedName,
			DisplayName:          p.DisplayName,
			Description:          p.Description,
			Criteria:             p.Criteria,
			Scope:                p.Scope,
			DomainIdentifier:     p.DomainIdentifier,
			AdditionalProperties: p.AdditionalProperties,
		},
	}
}

// NewZoneListResponse wraps zones in a successful list response. The
// elements array is never null on the wire.
func NewZoneListResponse(zones []*domain.GovernanceZone) *ZoneListResponse {
	elements := make([]ZoneElement, 0, len(zones))
	for _, z := range zones {
		elements = append(elements, NewZoneElement(z))
	}

	return &ZoneListResponse{ResponseEnvelope: envelope.Success(), Elements: elements}
}
