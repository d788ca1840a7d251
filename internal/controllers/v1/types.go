package v1

// URIGrantID binds the human readable grant ID from the request path.
type URIGrantID struct {
	GrantID string `uri:"grantID" binding:"required" example:"S25-3-14"`
}

// URIWeek binds a grants pack identifier from the request path.
type URIWeek struct {
	Week string `uri:"week" binding:"required" example:"S25-3"`
}

// Pagination contains metadata for list endpoints.
type Pagination struct {
	Count  int   `json:"count"`  // The amount of records returned in this response
	Offset uint  `json:"offset"` // The offset for the first record returned
	Limit  int   `json:"limit"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total"`  // The total number of resources matching the query
}

type httpError struct {
	Error string `json:"error"`
}
