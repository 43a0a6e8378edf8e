package handlers

import (
	"net/http"

	"mercator-hq/courier/pkg/proxy"
	"mercator-hq/courier/pkg/proxy/types"
)

// RootBanner is the body of GET /.
const RootBanner = "OK: courier proxy is live"

// Messages returned by the disabled GET lookup shortcuts.
const (
	SitesDisabledMessage   = "Use POST /location/site with credentials in body. GET /sites is disabled to avoid credential leaks."
	OfficesDisabledMessage = "Use POST /location/office with credentials in body. GET /offices is disabled to avoid credential leaks."
)

// Root serves GET / with a plain text banner.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = proxy.WriteText(w, http.StatusOK, RootBanner)
	}
}

// Disabled answers 400 with message. It replaces GET endpoints that would
// require credentials in the query string.
func Disabled(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = proxy.WriteErrorResponse(w, types.NewInvalidRequestError(message, "", types.CodeUsePost))
	}
}

// NotFound answers unknown routes with a JSON 404.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := types.NewErrorResponse("route "+r.Method+" "+r.URL.Path+" not found", types.ErrorTypeNotFound, types.CodeNotFound)
		_ = proxy.WriteErrorResponse(w, resp)
	}
}
