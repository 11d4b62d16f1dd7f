// Package strava is a minimal client for the Strava v3 API.
//
// Authentication uses the OAuth2 refresh-token grant: the client holds
// no access token of its own, the oauth2 token source obtains and
// renews one as needed. The client surfaces the rate-limit signal as
// ErrRateLimited so callers can end a run early with partial results.
package strava
