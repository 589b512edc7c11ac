// Package calendar provides a client for the Google Calendar API scoped to
// what the scheduler needs: listing the events that make up busy time and
// inserting bookings.
//
// A Client is built once from an authenticated *http.Client and shared. Every
// API call waits on an optional rate limiter and is traced and measured
// through the instrumentation package. CachedSource puts a short-lived cache
// in front of ListEvents so repeated availability lookups do not hit the API.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, httpClient,
//	    calendar.WithRateLimiter(rate.NewLimiter(5, 10)))
//	if err != nil {
//	    return err
//	}
//
//	events, err := client.ListEvents(ctx, "primary", time.Now(), time.Now().AddDate(0, 0, 7), 250)
package calendar
