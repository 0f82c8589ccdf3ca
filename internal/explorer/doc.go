// Package explorer provides the traversal, statistics, search and comparison
// core of the file explorer.
//
// It walks directory trees using fastwalk with a single worker, aggregates
// file counts and sizes by extension, matches entry names against substring
// filters, and compares two text files line by line by position.
//
// Every call builds and returns its own result; nothing is shared between
// calls.
package explorer
