// Package walrus mediates access to the Walrus storage CLI used to upload
// asset files and manifests.
//
// The CLI is driven in its single-shot JSON mode: one request document on
// stdin, one response document on stdout. Client.Store builds the request,
// logs the request and the raw response, and decodes the two known response
// shapes ("newlyCreated" and "alreadyCertified") into a Result.
//
// Failures are classified with errors.Is:
//   - ErrProcessFailure: the CLI could not start or exited non-zero
//   - ErrDataFormat: stdout was not JSON or matched neither response shape
//
// Process spawning sits behind the Executor interface so tests can substitute
// canned responses without a Walrus installation.
package walrus
