// Package rules provides the built-in match.Rule implementations: the
// simple delimiter rule, the keyword rule for block-structured grammars,
// and the markup tag rule. RegisterBuiltins wires the default rule lists
// for every known grammar into a registry.
package rules
