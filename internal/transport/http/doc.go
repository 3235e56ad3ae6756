// Package http implements the HTTP request handlers for the invoice
// analysis service. It provides a thin layer between HTTP transport and
// business logic, keeping handlers focused solely on HTTP concerns.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → InvoiceService → Analyzer
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Handler Structure
//
// Each handler follows this pattern:
//
//	func (h *Handler) HandleSomething(w http.ResponseWriter, r *http.Request) {
//	    // 1. Parse and validate request
//	    // 2. Call service layer
//	    result, err := h.service.DoSomething(r.Context())
//	    if err != nil {
//	        h.handleServiceError(w, r, err)
//	        return
//	    }
//	    // 3. Format and send response
//	    render.JSON(w, r, response)
//	}
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details. Requesting analysis before
// a dataset has been loaded maps to 404 DATASET_NOT_FOUND; empty rollups
// over a loaded dataset are 200s carrying the tagged empty body
// (has_data = false).
//
// # Testing
//
// Handlers are tested using httptest with mock service dependencies.
package http
