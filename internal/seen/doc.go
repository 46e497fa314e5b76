// Package seen tracks which media items the user has scrolled past,
// favorited, or trashed.
//
// Marks are buffered and written in batches, either when the buffer reaches
// a count threshold or on a timer, keeping the write rate independent of
// scroll speed. Recording can be suppressed while the trash view is active,
// since reviewing items marked for deletion should not count as seeing them.
package seen
