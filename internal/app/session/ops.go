package session

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/app/queue"
	"github.com/Tnxec2/FoplrAudio/internal/domain/media"
)

// restoreNavigation revalidates the persisted breadcrumb stack against
// the provider and reopens the topmost surviving folder. The stack is
// truncated at the first entry that is no longer readable; a child
// without its parent would break back navigation.
func (c *Controller) restoreNavigation() {
	go func() {
		persisted := c.store.LoadPathStack()
		valid := make([]media.FileItem, 0, len(persisted))
		for _, item := range persisted {
			if !c.provider.CanRead(item.Location) {
				zlog.Warn().Msgf("session: breadcrumb no longer readable, truncating stack: %s", item.Location)
				break
			}
			valid = append(valid, item)
		}

		c.post(func() {
			// The user may have navigated while revalidation ran; a live
			// stack always wins over the persisted one.
			if !c.stack.Empty() {
				return
			}
			if len(valid) == 0 {
				if len(persisted) > 0 {
					c.store.ClearPathStack()
				}
				return
			}
			c.stack.Replace(valid)
			c.setBreadcrumbs(c.stack.Items())
			if len(valid) != len(persisted) {
				c.store.SavePathStack(valid)
			}
			top, _ := c.stack.Top()
			c.openFolderTask(top.Location, top.Name, false)
		})
	}()
}

// OpenFolder lists a folder and makes it the current view, pushing it
// onto the breadcrumb stack.
func (c *Controller) OpenFolder(location, name string) {
	c.post(func() { c.openFolderTask(location, name, true) })
}

// openFolderTask runs on the event loop. The listing happens on a
// worker goroutine; a request generation suppresses results of
// superseded requests so a navigate-away cannot apply a stale listing.
func (c *Controller) openFolderTask(location, name string, push bool) {
	c.browseGen++
	gen := c.browseGen

	go func() {
		files, err := c.browser.List(location)
		c.post(func() {
			if gen != c.browseGen {
				zlog.Debug().Msgf("session: dropping stale listing for %s", location)
				return
			}
			if err != nil {
				// Navigation still proceeds into the now-empty folder.
				zlog.Warn().Msgf("session: failed to list folder: %v", err)
				c.notify(Notice{Code: NoticeFolderUnreadable, Message: "folder could not be read"})
			}
			c.setCurrentFiles(files)
			if push {
				c.stack.Push(media.FileItem{Name: name, Location: location, IsDirectory: true})
				c.setBreadcrumbs(c.stack.Items())
				c.store.SavePathStack(c.stack.Items())
			}
		})
	}()
}

// NavigateBack closes the playlist overlay if it is open; otherwise it
// pops the breadcrumb stack and re-lists the new top folder.
func (c *Controller) NavigateBack() {
	c.post(func() {
		if c.ShowPlaylist() {
			c.setShowPlaylist(false)
			return
		}
		if _, ok := c.stack.Pop(); !ok {
			return
		}
		c.setBreadcrumbs(c.stack.Items())
		c.store.SavePathStack(c.stack.Items())

		if top, ok := c.stack.Top(); ok {
			c.openFolderTask(top.Location, top.Name, false)
		} else {
			// Back at the bookmark list.
			c.setCurrentFiles(nil)
		}
	})
}

// TogglePlaylistView flips the playlist overlay. The overlay is not a
// stack frame; NavigateBack clears it without popping.
func (c *Controller) TogglePlaylistView() {
	c.post(func() {
		c.setShowPlaylist(!c.ShowPlaylist())
	})
}

// PlayFile builds a queue from the non-directory siblings in the
// current view and starts playback at the selected file.
func (c *Controller) PlayFile(selected media.FileItem, allFiles []media.FileItem) {
	audio := make([]media.FileItem, 0, len(allFiles))
	for _, f := range allFiles {
		if !f.IsDirectory {
			audio = append(audio, f)
		}
	}

	go func() {
		items := queue.Build(c.resolver, audio)
		c.post(func() {
			if c.tr == nil {
				zlog.Warn().Msg("session: play requested without transport")
				return
			}
			start := -1
			for i, f := range audio {
				if f.Location == selected.Location {
					start = i
					break
				}
			}
			if start < 0 {
				return
			}
			if err := c.tr.LoadQueue(items, start, 0); err != nil {
				zlog.Error().Msgf("session: failed to load queue: %v", err)
				return
			}
			if err := c.tr.Play(); err != nil {
				zlog.Error().Msgf("session: failed to start playback: %v", err)
			}
		})
	}()
}

// PlayFolderRecursive collects every audio file under location and
// either replaces the transport queue and plays, or appends without
// interrupting playback. An empty result emits a notice and performs
// no transport call.
func (c *Controller) PlayFolderRecursive(location string, replace bool) {
	go func() {
		files := c.browser.ListRecursive(location)
		items := queue.Build(c.resolver, files)
		c.post(func() {
			if len(items) == 0 {
				c.notify(Notice{Code: NoticeNoAudioFiles, Message: "no audio files found"})
				return
			}
			if c.tr == nil {
				zlog.Warn().Msg("session: play requested without transport")
				return
			}
			var err error
			if replace {
				if err = c.tr.LoadQueue(items, 0, 0); err == nil {
					err = c.tr.Play()
				}
			} else {
				err = c.tr.AddItems(items)
			}
			if err != nil {
				zlog.Error().Msgf("session: folder playback failed: %v", err)
			}
		})
	}()
}

// PlayQueueItem jumps playback to the queue entry at index.
func (c *Controller) PlayQueueItem(index int) {
	c.post(func() {
		if c.tr == nil {
			return
		}
		if err := c.tr.SelectItem(index); err != nil {
			zlog.Warn().Msgf("session: failed to select queue item %d: %v", index, err)
			return
		}
		_ = c.tr.Play()
	})
}

// RemoveQueueItem removes the queue entry at index.
func (c *Controller) RemoveQueueItem(index int) {
	c.post(func() {
		if c.tr == nil {
			return
		}
		if err := c.tr.RemoveItem(index); err != nil {
			zlog.Warn().Msgf("session: failed to remove queue item %d: %v", index, err)
		}
	})
}

// TogglePlayPause starts or pauses playback.
func (c *Controller) TogglePlayPause() {
	c.post(func() {
		if c.tr == nil {
			return
		}
		var err error
		if c.tr.IsPlaying() {
			err = c.tr.Pause()
		} else {
			err = c.tr.Play()
		}
		if err != nil {
			zlog.Warn().Msgf("session: play/pause failed: %v", err)
		}
	})
}

// SkipNext advances to the next queue entry.
func (c *Controller) SkipNext() {
	c.post(func() {
		if c.tr != nil {
			_ = c.tr.Next()
		}
	})
}

// SkipPrev goes back to the previous queue entry.
func (c *Controller) SkipPrev() {
	c.post(func() {
		if c.tr != nil {
			_ = c.tr.Previous()
		}
	})
}

// SeekTo moves the position within the current track.
func (c *Controller) SeekTo(positionMs int64) {
	c.post(func() {
		if c.tr != nil {
			_ = c.tr.Seek(positionMs)
		}
	})
}

// ToggleShuffle flips shuffle mode. The status is updated from the
// resulting transport event, not optimistically.
func (c *Controller) ToggleShuffle() {
	c.post(func() {
		if c.tr != nil {
			_ = c.tr.SetShuffle(!c.snapshot().ShuffleMode)
		}
	})
}

// ToggleRepeat cycles repeat mode off -> all -> one -> off.
func (c *Controller) ToggleRepeat() {
	c.post(func() {
		if c.tr != nil {
			_ = c.tr.SetRepeatMode(c.snapshot().Repeat.Next())
		}
	})
}

// TogglePauseAtEnd flips the pause-at-end-of-queue flag. The transport
// emits no event for it, so the controller owns the status change and
// its persistence.
func (c *Controller) TogglePauseAtEnd() {
	c.post(func() {
		enabled := !c.snapshot().PauseAtEnd
		if c.tr != nil {
			if err := c.tr.SetPauseAtEnd(enabled); err != nil {
				zlog.Warn().Msgf("session: failed to set pause-at-end: %v", err)
			}
		}
		status := c.snapshot()
		status.PauseAtEnd = enabled
		c.setStatus(status)
		c.store.SavePauseAtEnd(enabled)
	})
}

// AddBookmark grants access to location and bookmarks it. A location
// that cannot be enumerated after the grant is rejected with a notice
// instead of producing a dead bookmark.
func (c *Controller) AddBookmark(location, displayName string) {
	go func() {
		if err := c.provider.GrantAccess(location); err != nil {
			zlog.Warn().Msgf("session: access grant failed for %s: %v", location, err)
		}
		if !c.provider.CanRead(location) {
			c.notify(Notice{Code: NoticeBookmarkUnreadable, Message: "folder is not readable"})
			return
		}
		c.post(func() {
			if c.registry.Add(location, displayName) {
				c.signalUpdate()
			}
		})
	}()
}

// RemoveBookmark removes a bookmarked place and revokes its grant.
func (c *Controller) RemoveBookmark(place media.Place) {
	c.post(func() {
		if c.registry.Remove(place) {
			c.signalUpdate()
		}
	})
}
