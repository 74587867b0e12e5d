package backend

import (
	"net/url"
	"strconv"
	"strings"
)

// Query builds PostgREST filter query strings. Parameters keep the order in which
// they were added so request paths read the same way they are documented.
type Query struct {
	params [][2]string
}

// NewQuery returns a query selecting the given columns.
func NewQuery(columns ...string) *Query {
	q := &Query{}
	if len(columns) > 0 {
		q.add("select", strings.Join(columns, ","))
	}
	return q
}

// Eq adds an exact match filter on column.
func (q *Query) Eq(column, value string) *Query {
	return q.add(column, "eq."+value)
}

// OrderDesc orders results by column, newest first.
func (q *Query) OrderDesc(column string) *Query {
	return q.add("order", column+".desc")
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	return q.add("limit", strconv.Itoa(n))
}

func (q *Query) add(key, value string) *Query {
	q.params = append(q.params, [2]string{key, value})
	return q
}

// Encode renders the query without the leading '?'.
func (q *Query) Encode() string {
	if q == nil {
		return ""
	}

	var sb strings.Builder
	for i, p := range q.params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(p[0]))
		sb.WriteByte('=')
		sb.WriteString(escape(p[1]))
	}
	return sb.String()
}

// escape percent-encodes spaces as %20 rather than '+', matching how names are
// quoted in the PostgREST filter examples.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
