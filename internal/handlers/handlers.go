package handlers

import (
	"time"

	"homefeed/internal/feed"
	"homefeed/internal/imagecache"
	"homefeed/internal/seen"
	"homefeed/internal/startup"
	"homefeed/internal/store"
)

type Handlers struct {
	store     *store.Store
	cache     *imagecache.Cache
	library   *feed.Library
	tracker   *seen.Tracker
	watcher   *imagecache.Watcher
	config    *startup.Config
	startTime time.Time
}

func New(st *store.Store, cache *imagecache.Cache, library *feed.Library, tracker *seen.Tracker, watcher *imagecache.Watcher, config *startup.Config) *Handlers {
	return &Handlers{
		store:     st,
		cache:     cache,
		library:   library,
		tracker:   tracker,
		watcher:   watcher,
		config:    config,
		startTime: time.Now(),
	}
}
