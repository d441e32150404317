package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kochabonline/mcstatus/address"
	"github.com/kochabonline/mcstatus/errors"
	"github.com/kochabonline/mcstatus/status"
	"github.com/kochabonline/mcstatus/validator"
)

func TestServerHandler_Validate(t *testing.T) {
	r := newTestRouter(NewServerHandler(&stubLookuper{}))

	code, env := do(t, r, http.MethodGet, "/api/v1/address/validate?address=192.168.1.1:25565", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, ValidateResponse{Valid: true, Host: "192.168.1.1", Port: 25565, Kind: address.KindIPv4}, decode[ValidateResponse](t, env.Data))

	code, env = do(t, r, http.MethodGet, "/api/v1/address/validate?address=my+server.com", nil)
	assert.Equal(t, http.StatusOK, code)
	got := decode[ValidateResponse](t, env.Data)
	assert.False(t, got.Valid)
	assert.Equal(t, address.ReasonWhitespace, got.Reason)

	_, env = do(t, r, http.MethodGet, "/api/v1/address/validate", nil)
	assert.Equal(t, address.ReasonEmpty, decode[ValidateResponse](t, env.Data).Reason)
}

func TestServerHandler_Lookup(t *testing.T) {
	stub := &stubLookuper{
		resps: map[string]*status.Response{
			"hypixel.net": {Online: true, Hostname: "mc.hypixel.net", Version: status.Version{"1.8", "1.21"}},
		},
		errs: map[string]error{
			"down.example.com":    errors.BadGateway("lookup failed (500)").WithReason(status.ReasonLookupHTTP).WithMetadata(map[string]string{"status": "500"}),
			"offline.example.com": errors.ServiceUnavailable("lookup failed").WithReason(status.ReasonLookupNetwork),
			"localhost":           status.ErrInvalidAddress,
		},
	}
	r := newTestRouter(NewServerHandler(stub))

	code, env := do(t, r, http.MethodGet, "/api/v1/servers/hypixel.net", nil)
	assert.Equal(t, http.StatusOK, code)
	got := decode[LookupResponse](t, env.Data)
	assert.Equal(t, "hypixel.net", got.Address)
	assert.Equal(t, "mc.hypixel.net", got.View.Host)
	assert.Equal(t, "1.8, 1.21", got.View.Version)
	assert.Equal(t, "Online", got.View.Status)

	code, env = do(t, r, http.MethodGet, "/api/v1/servers/empty.example.com", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, status.ReasonNoData, env.Reason)

	code, env = do(t, r, http.MethodGet, "/api/v1/servers/down.example.com", nil)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, status.ReasonLookupHTTP, env.Reason)
	assert.Equal(t, "500", env.Metadata["status"])

	code, env = do(t, r, http.MethodGet, "/api/v1/servers/offline.example.com", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, status.ReasonLookupNetwork, env.Reason)

	code, env = do(t, r, http.MethodGet, "/api/v1/servers/localhost", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, status.ReasonInvalidAddress, env.Reason)
}

func TestServerHandler_LookupEscapedPort(t *testing.T) {
	stub := &stubLookuper{resps: map[string]*status.Response{"192.168.1.1:25565": {IP: "192.168.1.1", Port: 25565}}}
	r := newTestRouter(NewServerHandler(stub))

	code, env := do(t, r, http.MethodGet, "/api/v1/servers/192.168.1.1%3A25565", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "192.168.1.1:25565", decode[LookupResponse](t, env.Data).View.Host)
	assert.Equal(t, []string{"192.168.1.1:25565"}, stub.Calls())
}

func TestServerHandler_QRCode(t *testing.T) {
	r := newTestRouter(NewServerHandler(&stubLookuper{}))

	code, env := do(t, r, http.MethodGet, "/api/v1/servers/hypixel.net/qrcode?size=128", nil)
	assert.Equal(t, http.StatusOK, code)
	got := decode[QRCodeResponse](t, env.Data)
	assert.Equal(t, "hypixel.net", got.Address)
	assert.Equal(t, 128, got.Size)
	assert.NotEmpty(t, got.PNG)

	_, env = do(t, r, http.MethodGet, "/api/v1/servers/hypixel.net/qrcode", nil)
	assert.Equal(t, defaultQRCodeSize, decode[QRCodeResponse](t, env.Data).Size)

	code, env = do(t, r, http.MethodGet, "/api/v1/servers/localhost/qrcode", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, validator.ReasonInvalidArgument, env.Reason)

	code, _ = do(t, r, http.MethodGet, "/api/v1/servers/hypixel.net/qrcode?size=10", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
