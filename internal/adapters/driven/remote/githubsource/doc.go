// Package githubsource fetches the version file and content blob from a
// GitHub repository through the REST API.
//
// A token is optional; public repositories work without one at a lower rate
// limit. Requests are throttled proactively and back off when the API
// reports that the remaining quota is low.
package githubsource
