// Package fsops implements the explorer's direct filesystem operations:
// listing, navigation, creation, deletion, copying, moving, permissions and
// content viewing.
//
// Paths passed to the operations are already resolved; use Resolve to join a
// user-supplied name with the current directory.
package fsops
