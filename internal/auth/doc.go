// Package auth provides bearer credentials for Genie API calls.
//
// The TokenProvider interface is the single shared resource between
// concurrent conversation flows: implementations must be safe for
// concurrent use and hand out currently valid tokens without any
// external synchronization from callers.
//
// Two implementations are provided:
//
//   - Minter: OAuth2 client-credentials flow against a Databricks
//     workspace token endpoint, with expiry-aware caching and refresh.
//   - StaticToken: a fixed personal access token.
package auth
