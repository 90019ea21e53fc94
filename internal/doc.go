// Package internal contains helper utilities that are intentionally private to
// sessionguard, including secure session token generation and device
// fingerprint helpers.
//
// # What this package must NOT do
//
//   - Export types that appear in the public sessionguard API.
//   - Be imported by any package outside the sessionguard module.
package internal
