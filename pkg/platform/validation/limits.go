// Package validation holds trust-boundary limits applied before request
// bodies reach the domain services.
package validation

// MaxBodySize is the maximum allowed request body size (64 KB). Sufficient
// for JSON APIs, including publication bodies, while preventing memory
// exhaustion attacks.
const MaxBodySize = 64 * 1024
