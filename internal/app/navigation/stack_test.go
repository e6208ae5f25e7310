package navigation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tnxec2/FoplrAudio/internal/domain/media"
)

func folder(name, location string) media.FileItem {
	return media.FileItem{Name: name, Location: location, IsDirectory: true}
}

// assertNoAdjacentDuplicates checks the stack invariant: no two
// consecutive entries share a location.
func assertNoAdjacentDuplicates(t *testing.T, s *Stack) {
	t.Helper()
	items := s.Items()
	for i := 1; i < len(items); i++ {
		assert.NotEqual(t, items[i-1].Location, items[i].Location,
			"adjacent entries %d and %d share a location", i-1, i)
	}
}

func TestStack_PushDeduplicatesTop(t *testing.T) {
	s := NewStack()

	assert.True(t, s.Push(folder("Root", "/root")))
	assert.False(t, s.Push(folder("Root again", "/root")), "double push of the top must be rejected")
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Push(folder("Sub", "/root/sub")))
	assert.Equal(t, 2, s.Len())
	assertNoAdjacentDuplicates(t, s)

	// A previously visited location may reappear as long as it is not
	// the current top.
	assert.True(t, s.Push(folder("Root", "/root")))
	assertNoAdjacentDuplicates(t, s)
}

func TestStack_Pop(t *testing.T) {
	s := NewStack()
	s.Push(folder("Root", "/root"))
	s.Push(folder("Sub", "/root/sub"))

	popped, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, "/root/sub", popped.Location)

	top, ok := s.Top()
	assert.True(t, ok)
	assert.Equal(t, "/root", top.Location)

	_, ok = s.Pop()
	assert.True(t, ok)
	assert.True(t, s.Empty())

	_, ok = s.Pop()
	assert.False(t, ok, "pop on empty stack")
}

func TestStack_Replace(t *testing.T) {
	s := NewStack()
	s.Push(folder("Old", "/old"))

	restored := []media.FileItem{
		folder("Root", "/root"),
		folder("Sub", "/root/sub"),
	}
	s.Replace(restored)

	assert.Equal(t, restored, s.Items())

	// Replace must not alias the input slice.
	restored[0] = folder("Mutated", "/mutated")
	assert.Equal(t, "/root", s.Items()[0].Location)
}

func TestStack_InvariantUnderRandomOps(t *testing.T) {
	s := NewStack()

	locations := []string{"/a", "/b", "/c"}
	for i := 0; i < 100; i++ {
		switch i % 4 {
		case 0, 1, 2:
			loc := locations[i%len(locations)]
			s.Push(folder(fmt.Sprintf("f%d", i), loc))
		case 3:
			s.Pop()
		}
		assertNoAdjacentDuplicates(t, s)
	}
}
