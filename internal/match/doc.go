// Package match implements the structural pair matching and navigation
// engine: jump between the two ends of a bracket, quote, markup tag, or
// keyword pair, and derive the text regions those pairs span.
//
// # Architecture
//
// The engine dispatches across heterogeneous grammars through a small
// uniform interface:
//
//   - Rule: a grammar-specific recognizer/motion pair (GetTag, Jump)
//   - Registry: grammar id -> ordered rule list, built once at startup
//   - Engine: tries rules in registration order, first recognition wins,
//     and falls back to the built-in delimiter scanner when none match
//   - Region: normalized [Start, End) spans with inner/outer adjustment
//     for selection and deletion
//   - Percentage motion: proportional jump into the document as the
//     alternate interpretation of a numeric argument
//
// The built-in delimiter scanner matches {} () [] and quote characters,
// consulting a Classifier so that nesting counts never cross comment or
// string boundaries.
//
// # Invocation Model
//
// Every operation receives an Env carrying the per-call collaborators
// (document, cursor, classifier, grammar id, options) and runs to
// completion synchronously. The engine holds no reference to any of them
// across calls; only the Registry persists. Failures are local: the
// operation reports no match and the cursor stays where it was.
package match
