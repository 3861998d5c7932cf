// Package api embeds the agent's D-Bus interface definition.
package api

import _ "embed"

// IntrospectXML is the D-Bus introspection document describing the three
// agent facets. The mock agent serves it as its Introspectable answer and
// the MCP server exposes it as a resource.
//
//go:embed mlagent-introspect.xml
var IntrospectXML []byte
