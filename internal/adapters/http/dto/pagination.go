package dto

// PageRequest carries the paging query parameters of list operations.
// A page size of 0 asks for the server default.
type PageRequest struct {
	StartFrom int `form:"startFrom" json:"startFrom" validate:"gte=0"`
	PageSize  int `form:"pageSize"  json:"pageSize"  validate:"gte=0"`
}

// DomainPageRequest adds the governance domain filter to PageRequest.
// Domain 0 matches every zone.
type DomainPageRequest struct {
	Domain int `form:"domain" json:"domain" validate:"gte=0"`
	PageRequest
}

// UpdateQuery carries the query parameters of the update operation.
type UpdateQuery struct {
	IsMergeUpdate bool `form:"isMergeUpdate" json:"isMergeUpdate"`
}
