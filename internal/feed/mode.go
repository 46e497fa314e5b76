package feed

import "fmt"

// Mode identifies which filtered view of the media list is active. Only the
// six values below are representable; invalid combinations such as
// trash+unseen cannot be constructed.
type Mode int

const (
	// ModeNormal is the unfiltered feed.
	ModeNormal Mode = iota
	// ModeFavorites shows only favorited items.
	ModeFavorites
	// ModeFolder shows only items from one folder.
	ModeFolder
	// ModeFolderFavorites shows favorited items from one folder.
	ModeFolderFavorites
	// ModeTrash shows items marked for deletion.
	ModeTrash
	// ModeUnseen shows items never seen before.
	ModeUnseen
)

// HasFavorites reports whether the favorites filter is part of the mode.
func (m Mode) HasFavorites() bool {
	return m == ModeFavorites || m == ModeFolderFavorites
}

// HasFolder reports whether the folder filter is part of the mode.
func (m Mode) HasFolder() bool {
	return m == ModeFolder || m == ModeFolderFavorites
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeFavorites:
		return "favorites"
	case ModeFolder:
		return "folder"
	case ModeFolderFavorites:
		return "folder+favorites"
	case ModeTrash:
		return "trash"
	case ModeUnseen:
		return "unseen"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}
