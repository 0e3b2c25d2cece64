// Package httputil provides JSON plumbing for the familytree HTTP API.
//
//   - [WriteJSON] and [WriteError] write responses; errors become
//     {"code": ..., "message": ...} with the status from errors.HTTPStatus
//   - [DecodeJSON] reads a bounded request body, rejecting unknown fields
//   - [RequestID] tags each request with an ID, echoed in X-Request-ID
//
// Internal errors are logged by the caller and reported to clients without
// their message.
package httputil
