// Package providers defines the provider-neutral candidate model, the
// search client contract, and the registry that resolves which configured
// provider serves a sourcing run. Concrete clients live in subpackages
// (youtube for the standard content search, mcp for pipeline-mode archive
// providers).
package providers
