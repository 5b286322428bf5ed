// Package model holds the function-metadata manager's public data types.
package model

import "github.com/deployrt/scmcore/internal/jsonvalue"

// FunctionEnvelope is a function's public descriptor: its name, its raw
// configuration document, and the set of virtual-filesystem references a
// caller needs to locate the function's files without knowing the
// on-disk layout.
type FunctionEnvelope struct {
	Name   string
	Config jsonvalue.Value

	ScriptRootHref    string
	PrimaryScriptHref string
	ConfigFileHref    string
	TestDataHref      string
	SecretsHref       string
	SelfHref          string
}

// Disabled reports whether the envelope's config marks the function as
// disabled, mirroring the truthiness check sync_triggers applies inline.
func (e FunctionEnvelope) Disabled() bool {
	return e.Config.Get("disabled").Truthy()
}
