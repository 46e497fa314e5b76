// Package feed owns the active view of the media library.
//
// A Controller tracks which filtered mode is active (favorites, a single
// folder, both combined, trash, or unseen) and swaps the working image list
// wholesale on every transition, saving the previous list and scroll index
// in a frame so exiting a mode restores exactly where the user was. The
// Library type feeds the controller by deriving each filtered list from the
// shared image cache and the JSON stores.
package feed
