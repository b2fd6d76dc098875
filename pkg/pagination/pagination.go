package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Interview histories and catalog listings page with limit/offset query
// parameters. DefaultLimit keeps a patient's first history page small;
// MaxLimit caps what an admin console can pull in one request.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds the page window requested by the client.
type Params struct {
	Limit  int
	Offset int
}

// FromContext reads limit and offset from the query string. Missing,
// malformed, or out-of-range values fall back to the defaults rather than
// erroring; pagination is never a reason to reject a request.
func FromContext(c echo.Context) Params {
	return Params{
		Limit:  clamp(c.QueryParam("limit"), DefaultLimit, MaxLimit),
		Offset: clamp(c.QueryParam("offset"), 0, -1),
	}
}

// clamp parses raw into [fallback..max]; max < 0 means unbounded. Values
// that fail to parse, and limits of zero or below, take the fallback.
func clamp(raw string, fallback, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// HasNext reports whether results remain past this page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// NextOffset is where the following page starts.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// Response is the envelope every paged listing returns.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

func NewResponse(data interface{}, total, limit, offset int) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: Params{Limit: limit, Offset: offset}.HasNext(total),
	}
}
