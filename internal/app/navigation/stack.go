// Package navigation provides the breadcrumb stack of visited folders.
package navigation

import "github.com/Tnxec2/FoplrAudio/internal/domain/media"

// Stack is an ordered breadcrumb of visited folders, oldest first.
// Invariant: no two consecutive entries share a location. An empty
// stack means the bookmark-list view. The stack itself is not safe for
// concurrent use; the session controller serializes all access.
type Stack struct {
	items []media.FileItem
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{items: make([]media.FileItem, 0)}
}

// Push appends item unless the current top already has the same
// location. The guard protects against a double push when restore and
// live navigation race. Returns whether the item was appended.
func (s *Stack) Push(item media.FileItem) bool {
	if n := len(s.items); n > 0 && s.items[n-1].Location == item.Location {
		return false
	}
	s.items = append(s.items, item)
	return true
}

// Pop removes and returns the top entry. After a successful pop the
// caller is expected to re-list the new top; prior listings are not
// cached.
func (s *Stack) Pop() (media.FileItem, bool) {
	n := len(s.items)
	if n == 0 {
		return media.FileItem{}, false
	}
	top := s.items[n-1]
	s.items = s.items[:n-1]
	return top, true
}

// Replace swaps the whole stack. Used only during startup restoration;
// the input is trusted as already consistent, so the de-duplication
// guard is bypassed.
func (s *Stack) Replace(items []media.FileItem) {
	s.items = append(s.items[:0:0], items...)
}

// Top returns the current top entry.
func (s *Stack) Top() (media.FileItem, bool) {
	if len(s.items) == 0 {
		return media.FileItem{}, false
	}
	return s.items[len(s.items)-1], true
}

// Items returns a copy of the stack, oldest first.
func (s *Stack) Items() []media.FileItem {
	result := make([]media.FileItem, len(s.items))
	copy(result, s.items)
	return result
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	return len(s.items)
}

// Empty reports whether the stack is empty.
func (s *Stack) Empty() bool {
	return len(s.items) == 0
}
