// Package httpsource fetches the version string and content blob from plain
// HTTP(S) URLs.
//
// Every request is bounded three ways: a dial timeout for the connection, a
// response-header timeout, and an idle-read timeout that aborts a body
// stalled for longer than the read timeout. Requests pass through a circuit
// breaker so a failing host is not hammered, and version checks are
// throttled with a token bucket.
package httpsource
