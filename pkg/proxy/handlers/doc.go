// Package handlers provides the HTTP handlers of the courier proxy.
//
// # Routes
//
//	GET  /                 plain text banner
//	GET  /sites            400, use POST /location/site
//	GET  /offices          400, use POST /location/office
//	POST /location/site    site lookup, requires "name"
//	POST /location/office  office lookup, requires "siteId"
//	POST /shipment         create a shipment
//	POST /createShipment   legacy alias of /shipment
//	POST /print            render a label, answers with the PDF bytes
//
// Each carrier route follows the same steps: parse the JSON body, pull out
// caller credentials, call the carrier client, then write either the
// success body or an error body built by proxy.HandleError or
// proxy.HandleResult.
package handlers
