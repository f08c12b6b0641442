// Package dag is a small directed graph keyed by string IDs. The flow engine
// records which end-to-end flows reference which others and uses it to find
// reference cycles before any flow is instantiated.
package dag
