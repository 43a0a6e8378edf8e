// Package proxy holds the HTTP edge of the courier: request parsing, caller
// credential extraction, error mapping and response writing shared by the
// route handlers in the handlers subpackage.
//
// # Request Flow
//
//  1. ParseJSONBody reads a size-limited JSON object (numbers kept exact)
//  2. ExtractOverride strips userName/password from the body and, in
//     multi-tenant mode, turns them into a credential override
//  3. The handler calls the carrier client
//  4. HandleError / HandleResult map pre-flight errors and failed results to
//     an ErrorResponse; successes are written with WriteRawJSON,
//     WriteJSONResponse or WriteBinary
//
// # Status Mapping
//
//   - invalid request: 400
//   - body too large: 413
//   - missing credentials: 500 with code credentials_missing
//   - transport failure: 502, or 504 when the carrier timed out
//   - non-2xx carrier answer: the carrier's status
//   - 2xx answer with an error in the body: 502
//
// Every error body carries error, status, details and json:
//
//	{"error":"Speedy shipment failed","status":200,"details":"...","json":{...},"type":"carrier_rejected","code":"carrier_error"}
package proxy
