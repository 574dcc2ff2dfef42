package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/envelope"
	"github.com/jsamuelsen/metadata-access-client/internal/adapters/http/dto"
	"github.com/jsamuelsen/metadata-access-client/internal/adapters/http/middleware"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
	"github.com/jsamuelsen/metadata-access-client/internal/ports"
)

// Path parameters of the zone routes.
const (
	ParamServerName = "serverName"
	ParamUserID     = "userId"
	ParamZoneGUID   = "guid"
)

// ZonesPath is the route prefix of the zone endpoints, relative to the
// server root.
const ZonesPath = "/servers/:" + ParamServerName +
	"/open-metadata/access-services/governance-program/users/:" + ParamUserID + "/governance-zones"

// ZoneHandler serves the governance zone endpoints of a metadata server.
// Every response, success or failure, is a response envelope.
type ZoneHandler struct {
	zones      ports.ZoneRepository
	serverName string
}

// NewZoneHandler creates a zone handler answering for serverName. An empty
// serverName answers for any server.
func NewZoneHandler(zones ports.ZoneRepository, serverName string) *ZoneHandler {
	return &ZoneHandler{
		zones:      zones,
		serverName: serverName,
	}
}

// CreateZone handles POST {ZonesPath}.
func (h *ZoneHandler) CreateZone(c *gin.Context) {
	var req dto.ZoneRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		middleware.AbortWithFailure(c, dto.BindingFailure(domain.OpCreateZone, err))
		return
	}

	zone, err := h.zones.Create(c.Request.Context(), c.Param(ParamUserID), req.Properties.ToDomain())
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GUIDResponse{ResponseEnvelope: envelope.Success(), GUID: zone.GUID})
}

// UpdateZone handles POST {ZonesPath}/:guid?isMergeUpdate=.
func (h *ZoneHandler) UpdateZone(c *gin.Context) {
	var query dto.UpdateQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		middleware.AbortWithFailure(c, dto.BindingFailure(domain.OpUpdateZone, err))
		return
	}

	var req dto.ZoneRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		middleware.AbortWithFailure(c, dto.BindingFailure(domain.OpUpdateZone, err))
		return
	}

	err := h.zones.Update(c.Request.Context(), c.Param(ParamUserID), c.Param(ParamZoneGUID),
		req.Properties.ToDomain(), query.IsMergeUpdate)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VoidResponse{ResponseEnvelope: envelope.Success()})
}

// UpdateZoneStatus handles POST {ZonesPath}/:guid/status.
func (h *ZoneHandler) UpdateZoneStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		middleware.AbortWithFailure(c, dto.BindingFailure(domain.OpUpdateZoneStatus, err))
		return
	}

	err := h.zones.SetStatus(c.Request.Context(), c.Param(ParamUserID), c.Param(ParamZoneGUID),
		domain.ParseZoneStatus(req.Status))
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VoidResponse{ResponseEnvelope: envelope.Success()})
}

// DeleteZone handles POST {ZonesPath}/:guid/delete.
func (h *ZoneHandler) DeleteZone(c *gin.Context) {
	if err := h.zones.Delete(c.Request.Context(), c.Param(ParamUserID), c.Param(ParamZoneGUID)); err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VoidResponse{ResponseEnvelope: envelope.Success()})
}

// FetchZone handles GET {ZonesPath}/:guid.
func (h *ZoneHandler) FetchZone(c *gin.Context) {
	zone, err := h.zones.Get(c.Request.Context(), c.Param(ParamUserID), c.Param(ParamZoneGUID))
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	element := dto.NewZoneElement(zone)
	c.JSON(http.StatusOK, dto.ZoneResponse{ResponseEnvelope: envelope.Success(), Element: &element})
}

// FetchZonesByName handles POST {ZonesPath}/by-name?startFrom=&pageSize=.
func (h *ZoneHandler) FetchZonesByName(c *gin.Context) {
	var page dto.PageRequest
	if err := dto.BindQueryAndValidate(c, &page); err != nil {
		middleware.AbortWithFailure(c, dto.BindingFailure(domain.OpFetchZonesByName, err))
		return
	}

	var req dto.NameRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		middleware.AbortWithFailure(c, dto.BindingFailure(domain.OpFetchZonesByName, err))
		return
	}

	zones, err := h.zones.FindByName(c.Request.Context(), c.Param(ParamUserID), req.Name,
		page.StartFrom, page.PageSize)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewZoneListResponse(zones))
}

// ListZonesForDomain handles GET {ZonesPath}/for-domain?domain=&startFrom=&pageSize=.
func (h *ZoneHandler) ListZonesForDomain(c *gin.Context) {
	var query dto.DomainPageRequest
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		middleware.AbortWithFailure(c, dto.BindingFailure(domain.OpListZonesForDomain, err))
		return
	}

	zones, err := h.zones.ListForDomain(c.Request.Context(), c.Param(ParamUserID), query.Domain,
		query.StartFrom, query.PageSize)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewZoneListResponse(zones))
}

// requireServer aborts when the request addresses a server other than the
// one this handler answers for.
func (h *ZoneHandler) requireServer(c *gin.Context) {
	name := c.Param(ParamServerName)
	if h.serverName != "" && name != h.serverName {
		f := domain.NewPropertyServerError(domain.CodeUnexpectedServerFailure, middleware.GetOperation(c), nil,
			"server "+name+" is not hosted on this platform")
		f.StatusCode = http.StatusNotFound
		middleware.AbortWithFailure(c, f)

		return
	}

	c.Next()
}

// RegisterZoneRoutes registers the zone routes on the given router group.
// extra runs after the operation is recorded and before the handler, so
// failures it raises are attributed to the operation.
func (h *ZoneHandler) RegisterZoneRoutes(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	zones := rg.Group(ZonesPath)

	route := func(operation string, handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(extra)+3)
		chain = append(chain, middleware.Operation(operation), h.requireServer)
		chain = append(chain, extra...)

		return append(chain, handler)
	}

	zones.POST("", route(domain.OpCreateZone, h.CreateZone)...)
	zones.POST("/by-name", route(domain.OpFetchZonesByName, h.FetchZonesByName)...)
	zones.GET("/for-domain", route(domain.OpListZonesForDomain, h.ListZonesForDomain)...)
	zones.GET("/:"+ParamZoneGUID, route(domain.OpFetchZone, h.FetchZone)...)
	zones.POST("/:"+ParamZoneGUID, route(domain.OpUpdateZone, h.UpdateZone)...)
	zones.POST("/:"+ParamZoneGUID+"/status", route(domain.OpUpdateZoneStatus, h.UpdateZoneStatus)...)
	zones.POST("/:"+ParamZoneGUID+"/delete", route(domain.OpDeleteZone, h.DeleteZone)...)
}
