package domain

// ZoneTypeName is the metadata type name of a governance zone.
const ZoneTypeName = "GovernanceZone"

// ZoneStatus is the lifecycle status of a governance zone.
// The zero value means the status was not set.
type ZoneStatus int

// Zone statuses.
const (
	ZoneStatusUnset ZoneStatus = iota
	ZoneStatusDraft
	ZoneStatusProposed
	ZoneStatusApproved
	ZoneStatusActive
	ZoneStatusDeprecated
	ZoneStatusOther
)

var zoneStatusNames = map[ZoneStatus]string{
	ZoneStatusUnset:      "UNSET",
	ZoneStatusDraft:      "DRAFT",
	ZoneStatusProposed:   "PROPOSED",
	ZoneStatusApproved:   "APPROVED",
	ZoneStatusActive:     "ACTIVE",
	ZoneStatusDeprecated: "DEPRECATED",
	ZoneStatusOther:      "OTHER",
}

// String returns the wire name of the status.
func (s ZoneStatus) String() string {
	if name, ok := zoneStatusNames[s]; ok {
		return name
	}

	return zoneStatusNames[ZoneStatusUnset]
}

// ParseZoneStatus resolves a wire name. Unknown names yield ZoneStatusUnset.
func ParseZoneStatus(name string) ZoneStatus {
	for status, n := range zoneStatusNames {
		if n == name {
			return status
		}
	}

	return ZoneStatusUnset
}

// ZoneProperties are the caller-supplied attributes of a governance zone.
type ZoneProperties struct {
	// QualifiedName is unique across all zones.
	QualifiedName string

	DisplayName string
	Description string
	Criteria    string
	Scope       string

	// DomainIdentifier groups zones by governance domain. Zero means none.
	DomainIdentifier int

	AdditionalProperties map[string]string
}

// GovernanceZone is a governance zone as stored by the metadata server.
type GovernanceZone struct {
	GUID       string
	Status     ZoneStatus
	Properties ZoneProperties
}

// ElementStub is the minimal header identifying a metadata element.
type ElementStub struct {
	GUID       string
	TypeName   string
	UniqueName string
}

// Stub returns the element header for the zone.
func (z *GovernanceZone) Stub() ElementStub {
	return ElementStub{
		GUID:       z.GUID,
		TypeName:   ZoneTypeName,
		UniqueName: z.Properties.QualifiedName,
	}
}

// Zone operation names, as reported in failures and metrics.
const (
	OpCreateZone         = "createZone"
	OpUpdateZone         = "updateZone"
	OpUpdateZoneStatus   = "updateZoneStatus"
	OpDeleteZone         = "deleteZone"
	OpFetchZone          = "fetchZone"
	OpFetchZonesByName   = "fetchZonesByName"
	OpListZonesForDomain = "listZonesForDomain"
)
