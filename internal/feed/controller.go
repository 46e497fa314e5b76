package feed

import (
	"context"
	"errors"
	"sync"

	"homefeed/internal/logging"
)

// Controller errors.
var (
	// ErrTransitionInFlight is returned when a mode transition is requested
	// while another one is still fetching. The caller retries once the
	// in-flight transition settles.
	ErrTransitionInFlight = errors.New("feed: mode transition already in flight")

	// ErrModeConflict is returned for transitions that would produce an
	// invalid mode combination, such as entering unseen from anywhere but
	// the normal feed.
	ErrModeConflict = errors.New("feed: invalid mode combination")
)

// Source fetches the filtered media lists the controller switches between.
type Source interface {
	AllImages(ctx context.Context) ([]string, error)
	FolderImages(ctx context.Context, folder string) ([]string, error)
	FavoriteImages(ctx context.Context) ([]string, error)
	FavoriteFolderImages(ctx context.Context, folder string) ([]string, error)
	TrashImages(ctx context.Context) ([]string, error)
	UnseenImages(ctx context.Context) ([]string, error)
}

// Recorder receives seen marks and the trash-mode suppression toggle.
type Recorder interface {
	Mark(path string)
	SetSuppressed(suppressed bool)
}

// frame is one saved view state, pushed when a mode is entered and consumed
// when it is exited.
type frame struct {
	mode       Mode // the mode whose entry created this frame
	prevMode   Mode
	prevFolder string
	list       []string
	index      int
}

// Controller tracks which filtered view is active and swaps the working
// image list on transitions.
//
// Entering a mode saves the current list and scroll index in a frame, fetches
// the new filtered list from the Source, and replaces the displayed list
// wholesale; the existing list is never filtered in place. Exiting restores
// the saved frame, except when the folder/favorites pair is still partially
// active, in which case the remaining mode's list is re-fetched.
//
// Transitions are serialized: a transition requested while another is in
// flight fails with ErrTransitionInFlight rather than queueing, and each
// transition carries a generation token so a result that lost the race is
// discarded instead of corrupting saved frames. On a fetch error nothing is
// mutated; mode, list, and frames keep their pre-transition values.
type Controller struct {
	source   Source
	recorder Recorder
	onChange func(list []string, index int)

	mu         sync.Mutex
	mode       Mode
	folder     string
	list       []string
	index      int
	frames     []frame
	generation uint64
	inFlight   bool
}

// NewController creates a Controller in normal mode with an empty list.
// Call Load to populate the initial feed.
func NewController(source Source, recorder Recorder) *Controller {
	return &Controller{
		source:   source,
		recorder: recorder,
		list:     []string{},
	}
}

// SetOnChange registers a hook invoked with the new list and scroll index
// after every committed transition. The rendering layer rebuilds its slide
// set from it.
func (c *Controller) SetOnChange(fn func(list []string, index int)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Folder returns the active folder filter, or "" when none is active.
func (c *Controller) Folder() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.folder
}

// List returns the currently displayed list.
func (c *Controller) List() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.list...)
}

// Index returns the current scroll index.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Empty reports whether the active view resolved to an empty list. The
// unseen view uses this as an explicit empty state: the controller stays in
// unseen mode until the user asks to leave.
func (c *Controller) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.list) == 0
}

// Activate records that the slide at index i became visible, updating the
// scroll position and marking the item as seen. Seen marks are
// fire-and-forget; the recorder batches them.
func (c *Controller) Activate(i int) {
	c.mu.Lock()
	if i < 0 || i >= len(c.list) {
		c.mu.Unlock()
		return
	}
	c.index = i
	path := c.list[i]
	c.mu.Unlock()

	if c.recorder != nil {
		c.recorder.Mark(path)
	}
}

// SetIndex updates the scroll position without marking anything seen.
func (c *Controller) SetIndex(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i >= 0 && i < len(c.list) {
		c.index = i
	}
}

// Load fetches the unfiltered feed. It is the initial population and also
// serves as a refresh while in normal mode.
func (c *Controller) Load(ctx context.Context) error {
	gen, snap, err := c.begin()
	if err != nil {
		return err
	}
	if snap.mode != ModeNormal {
		c.abort()
		return ErrModeConflict
	}

	list, err := c.source.AllImages(ctx)
	if err != nil {
		c.abort()
		return err
	}

	c.commit(gen, func() {
		c.list = list
		c.index = clamp(snap.index, len(list))
	})
	return nil
}

// EnterFavorites switches to the favorites view. From the folder view it
// composes into folder+favorites. Blocked while trash or unseen is active.
func (c *Controller) EnterFavorites(ctx context.Context) error {
	gen, snap, err := c.begin()
	if err != nil {
		return err
	}

	switch snap.mode {
	case ModeFavorites, ModeFolderFavorites:
		c.abort()
		return nil // already active
	case ModeTrash, ModeUnseen:
		c.abort()
		return ErrModeConflict
	}

	var list []string
	if snap.mode == ModeFolder {
		list, err = c.source.FavoriteFolderImages(ctx, snap.folder)
	} else {
		list, err = c.source.FavoriteImages(ctx)
	}
	if err != nil {
		c.abort()
		return err
	}

	c.commit(gen, func() {
		c.push(ModeFavorites, snap)
		if snap.mode == ModeFolder {
			c.mode = ModeFolderFavorites
		} else {
			c.mode = ModeFavorites
		}
		c.list = list
		c.index = 0
	})
	return nil
}

// ExitFavorites leaves the favorites view. If the folder filter is still
// active its list is re-fetched; otherwise the saved frame is restored.
func (c *Controller) ExitFavorites(ctx context.Context) error {
	gen, snap, err := c.begin()
	if err != nil {
		return err
	}
	if !snap.mode.HasFavorites() {
		c.abort()
		return nil
	}

	if snap.mode == ModeFolderFavorites {
		list, err := c.source.FolderImages(ctx, snap.folder)
		if err != nil {
			c.abort()
			return err
		}
		c.commit(gen, func() {
			c.drop(ModeFavorites)
			c.mode = ModeFolder
			c.list = list
			c.index = 0
		})
		return nil
	}

	c.commit(gen, func() {
		c.restore(ModeFavorites)
	})
	return nil
}

// EnterFolder switches to a single-folder view. From the favorites view it
// composes into folder+favorites; if a folder view is already active the
// folder is switched in place without saving another frame.
func (c *Controller) EnterFolder(ctx context.Context, folder string) error {
	gen, snap, err := c.begin()
	if err != nil {
		return err
	}

	switch snap.mode {
	case ModeTrash, ModeUnseen:
		c.abort()
		return ErrModeConflict
	}

	favorites := snap.mode.HasFavorites()

	var list []string
	if favorites {
		list, err = c.source.FavoriteFolderImages(ctx, folder)
	} else {
		list, err = c.source.FolderImages(ctx, folder)
	}
	if err != nil {
		c.abort()
		return err
	}

	c.commit(gen, func() {
		if !snap.mode.HasFolder() {
			c.push(ModeFolder, snap)
		}
		if favorites {
			c.mode = ModeFolderFavorites
		} else {
			c.mode = ModeFolder
		}
		c.folder = folder
		c.list = list
		c.index = 0
	})
	return nil
}

// ExitFolder leaves the folder view. If the favorites filter is still
// active its list is re-fetched; otherwise the saved frame is restored.
func (c *Controller) ExitFolder(ctx context.Context) error {
	gen, snap, err := c.begin()
	if err != nil {
		return err
	}
	if !snap.mode.HasFolder() {
		c.abort()
		return nil
	}

	if snap.mode == ModeFolderFavorites {
		list, err := c.source.FavoriteImages(ctx)
		if err != nil {
			c.abort()
			return err
		}
		c.commit(gen, func() {
			c.drop(ModeFolder)
			c.mode = ModeFavorites
			c.folder = ""
			c.list = list
			c.index = 0
		})
		return nil
	}

	c.commit(gen, func() {
		c.restore(ModeFolder)
	})
	return nil
}

// EnterTrash switches to the trash review view and suppresses seen
// recording for its duration. Blocked while unseen is active.
func (c *Controller) EnterTrash(ctx context.Context) error {
	gen, snap, err := c.begin()
	if err != nil {
		return err
	}

	switch snap.mode {
	case ModeTrash:
		c.abort()
		return nil
	case ModeUnseen:
		c.abort()
		return ErrModeConflict
	}

	list, err := c.source.TrashImages(ctx)
	if err != nil {
		c.abort()
		return err
	}

	c.commit(gen, func() {
		c.push(ModeTrash, snap)
		c.mode = ModeTrash
		c.list = list
		c.index = 0
		if c.recorder != nil {
			c.recorder.SetSuppressed(true)
		}
	})
	return nil
}

// ExitTrash restores the view that was active before entering the trash and
// re-enables seen recording.
func (c *Controller) ExitTrash() error {
	gen, snap, err := c.begin()
	if err != nil {
		return err
	}
	if snap.mode != ModeTrash {
		c.abort()
		return nil
	}

	c.commit(gen, func() {
		c.restore(ModeTrash)
		if c.recorder != nil {
			c.recorder.SetSuppressed(false)
		}
	})
	return nil
}

// EnterUnseen switches to the unseen view: every configured image minus the
// seen history, in feed order. Only reachable from the normal feed. An empty
// result is a valid state; the caller renders it and the user decides when
// to leave.
func (c *Controller) EnterUnseen(ctx context.Context) error {
	gen, snap, err := c.begin()
	if err != nil {
		return err
	}

	switch snap.mode {
	case ModeUnseen:
		c.abort()
		return nil
	case ModeNormal:
	default:
		c.abort()
		return ErrModeConflict
	}

	list, err := c.source.UnseenImages(ctx)
	if err != nil {
		c.abort()
		return err
	}

	c.commit(gen, func() {
		c.push(ModeUnseen, snap)
		c.mode = ModeUnseen
		c.list = list
		c.index = 0
	})
	return nil
}

// ExitUnseen returns to the normal feed.
func (c *Controller) ExitUnseen() error {
	gen, snap, err := c.begin()
	if err != nil {
		return err
	}
	if snap.mode != ModeUnseen {
		c.abort()
		return nil
	}

	c.commit(gen, func() {
		c.restore(ModeUnseen)
	})
	return nil
}

// snapshot is the controller state captured at the start of a transition.
type snapshot struct {
	mode   Mode
	folder string
	list   []string
	index  int
}

// begin claims the single transition slot and captures the current state.
func (c *Controller) begin() (uint64, snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return 0, snapshot{}, ErrTransitionInFlight
	}
	c.inFlight = true
	c.generation++

	return c.generation, snapshot{
		mode:   c.mode,
		folder: c.folder,
		list:   c.list,
		index:  c.index,
	}, nil
}

// abort releases the transition slot without mutating state.
func (c *Controller) abort() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// commit applies a transition unless its generation went stale, then
// notifies the rendering hook.
func (c *Controller) commit(gen uint64, apply func()) {
	c.mu.Lock()
	c.inFlight = false
	if gen != c.generation {
		c.mu.Unlock()
		logging.Debug("discarding stale mode transition (generation %d)", gen)
		return
	}
	apply()
	onChange := c.onChange
	list := append([]string(nil), c.list...)
	index := c.index
	c.mu.Unlock()

	if onChange != nil {
		onChange(list, index)
	}
}

// push saves the pre-transition state in a frame tagged with the entered
// mode. Callers must hold c.mu.
func (c *Controller) push(entered Mode, snap snapshot) {
	c.frames = append(c.frames, frame{
		mode:       entered,
		prevMode:   snap.mode,
		prevFolder: snap.folder,
		list:       snap.list,
		index:      snap.index,
	})
}

// take removes and returns the frame tagged with mode, searching from the
// top of the stack. Callers must hold c.mu.
func (c *Controller) take(mode Mode) (frame, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].mode == mode {
			f := c.frames[i]
			c.frames = append(c.frames[:i], c.frames[i+1:]...)
			return f, true
		}
	}
	return frame{}, false
}

// drop removes the frame tagged with mode without restoring it, used when
// the remaining half of a compound mode is re-fetched instead. Frames whose
// saved previous state pointed at the dropped mode inherit the dropped
// frame's saved state, so a later exit unwinds past the removed mode.
// Callers must hold c.mu.
func (c *Controller) drop(mode Mode) {
	f, ok := c.take(mode)
	if !ok {
		return
	}
	for i := range c.frames {
		if c.frames[i].prevMode == mode {
			c.frames[i].prevMode = f.prevMode
			c.frames[i].prevFolder = f.prevFolder
			c.frames[i].list = f.list
			c.frames[i].index = f.index
		}
	}
}

// restore pops the frame tagged with mode and reinstates its saved list,
// scroll index, and prior mode. Callers must hold c.mu.
func (c *Controller) restore(mode Mode) {
	f, ok := c.take(mode)
	if !ok {
		c.mode = ModeNormal
		c.folder = ""
		return
	}
	c.mode = f.prevMode
	c.folder = f.prevFolder
	c.list = f.list
	c.index = clamp(f.index, len(f.list))
}

func clamp(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
