// Package reqid models the per-request correlation identifier and binds it to
// the context of the request being served.
//
// Every inbound request gets exactly one ID. If the client sends an
// X-Request-Id header with a usable value, that value is reused (truncated to
// fixedstr.Capacity bytes) as an External ID. Otherwise a random UUID is
// generated as an Internal ID, rendered with the "internal-" prefix.
//
// Deriving and binding in an adapter:
//
//	id := reqid.FromHeader(r.Header)
//	ctx := reqid.Bind(r.Context(), id)
//	next.ServeHTTP(w, r.WithContext(ctx))
//
// Reading anywhere below it:
//
//	id := reqid.Current(r.Context())
//	w.Header().Set(reqid.Header, id.String())
package reqid

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/textproto"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/reqscope/pkg/fixedstr"
)

// Header is the HTTP header name used to propagate the request ID.
const Header = "X-Request-Id"

// InternalPrefix is prepended to generated IDs when rendered.
const InternalPrefix = "internal-"

// Scope records where an ID came from.
type Scope uint8

const (
	// Internal IDs are generated by this service.
	Internal Scope = iota
	// External IDs were supplied by the caller.
	External
)

func (s Scope) String() string {
	switch s {
	case Internal:
		return "Internal"
	case External:
		return "External"
	default:
		return fmt.Sprintf("Scope(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	switch s {
	case Internal, External:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("reqid: unknown scope %d", uint8(s))
	}
}

// ID is a request identifier. It is a small value type: copy it freely.
type ID struct {
	scope Scope
	data  fixedstr.String
}

// Generate returns a fresh Internal ID holding a random UUID.
func Generate() ID {
	return ID{scope: Internal, data: fixedstr.New(uuid.NewString())}
}

// FromExternal wraps caller-supplied text as an External ID. Input longer
// than fixedstr.Capacity is truncated, never rejected.
func FromExternal(s string) ID {
	return ID{scope: External, data: fixedstr.New(s)}
}

// FromHeader derives the ID for a request. A present, printable X-Request-Id
// value becomes an External ID, even when it is empty; a missing or malformed
// value yields a fresh Internal ID.
func FromHeader(h http.Header) ID {
	values := h[textproto.CanonicalMIMEHeaderKey(Header)]
	if len(values) == 0 || !isHeaderText(values[0]) {
		return Generate()
	}
	return FromExternal(values[0])
}

// isHeaderText accepts the same bytes a header value may carry as plain text:
// visible ASCII, space and horizontal tab.
func isHeaderText(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\t' {
			continue
		}
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// Scope returns the provenance of the ID.
func (id ID) Scope() Scope { return id.scope }

// Data returns the stored payload without any prefix.
func (id ID) Data() string { return id.data.String() }

// String renders the ID for headers and logs. External IDs are returned
// verbatim, Internal IDs carry InternalPrefix.
func (id ID) String() string {
	if id.scope == Internal {
		return InternalPrefix + id.data.String()
	}
	return id.data.String()
}

// MarshalJSON encodes the full ID as {"data": ..., "scope": ...}, keys sorted.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Data  fixedstr.String `json:"data"`
		Scope Scope           `json:"scope"`
	}{Data: id.data, Scope: id.scope})
}
