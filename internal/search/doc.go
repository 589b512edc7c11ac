// Package search queries the Google Custom Search JSON API so the agent can
// answer questions that need fresh information from the web.
package search
