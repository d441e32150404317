// Package api exposes address validation, status lookups and input sessions
// over gin.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabonline/mcstatus/address"
	"github.com/kochabonline/mcstatus/core/tools"
	"github.com/kochabonline/mcstatus/errors"
	"github.com/kochabonline/mcstatus/status"
	"github.com/kochabonline/mcstatus/transport/http/response"
	"github.com/kochabonline/mcstatus/validator"
)

const defaultQRCodeSize = 256

type ValidateRequest struct {
	Address string `form:"address" json:"address"`
}

type ValidateResponse struct {
	Valid   bool           `json:"valid"`
	Reason  address.Reason `json:"reason,omitempty"`
	Message string         `json:"message,omitempty"`
	Host    string         `json:"host,omitempty"`
	Port    uint16         `json:"port,omitempty"`
	Kind    address.Kind   `json:"kind,omitempty"`
}

type ServerUri struct {
	Address string `uri:"address" json:"address"`
}

type LookupResponse struct {
	Address string           `json:"address"`
	View    status.View      `json:"view"`
	Raw     *status.Response `json:"raw"`
}

type QRCodeRequest struct {
	Address string `uri:"address" json:"address" validate:"server_address"`
	Size    int    `form:"size" json:"size" validate:"omitempty,min=64,max=1024"`
}

type QRCodeResponse struct {
	Address string `json:"address"`
	Size    int    `json:"size"`
	PNG     string `json:"png"`
}

// ServerHandler serves validation and status lookups.
type ServerHandler struct {
	lookuper status.Lookuper
}

func NewServerHandler(lookuper status.Lookuper) *ServerHandler {
	return &ServerHandler{lookuper: lookuper}
}

func (h *ServerHandler) Register(r gin.IRouter) {
	r.GET("/address/validate", h.validate)
	r.GET("/servers/:address", h.lookup)
	r.GET("/servers/:address/qrcode", h.qrcode)
}

func (h *ServerHandler) validate(c *gin.Context) {
	var req ValidateRequest
	if err := validator.GinShouldBindQuery(c, &req); err != nil {
		response.GinJSONError(c, err)
		return
	}

	addr, err := address.Parse(req.Address)
	if err != nil {
		reason := address.ReasonOf(err)
		response.GinJSON(c, ValidateResponse{Reason: reason, Message: reason.Message()})
		return
	}

	response.GinJSON(c, ValidateResponse{
		Valid: true,
		Host:  addr.Host,
		Port:  addr.Port,
		Kind:  addr.Kind,
	})
}

func (h *ServerHandler) lookup(c *gin.Context) {
	var uri ServerUri
	if err := validator.GinShouldBindUri(c, &uri); err != nil {
		response.GinJSONError(c, err)
		return
	}

	resp, err := h.lookuper.Lookup(c.Request.Context(), uri.Address)
	if err != nil {
		response.GinJSONError(c, err)
		return
	}
	if resp == nil {
		response.GinJSONError(c, status.ErrNoData)
		return
	}

	response.GinJSON(c, LookupResponse{
		Address: address.Trim(uri.Address),
		View:    status.NewView(resp),
		Raw:     resp,
	})
}

func (h *ServerHandler) qrcode(c *gin.Context) {
	var req QRCodeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.GinJSONError(c, errors.BadRequest("%v", err).WithReason(validator.ReasonInvalidArgument))
		return
	}
	if err := validator.GinShouldBindQuery(c, &req); err != nil {
		response.GinJSONError(c, err)
		return
	}
	if req.Size == 0 {
		req.Size = defaultQRCodeSize
	}

	addr := address.Trim(req.Address)
	png, err := tools.QRCode(addr, req.Size)
	if err != nil {
		response.GinJSONError(c, err)
		return
	}

	response.GinJSON(c, QRCodeResponse{Address: addr, Size: req.Size, PNG: png})
}
