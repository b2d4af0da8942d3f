package host

import (
	"sync"

	"device-showcase/scene"
)

// imageSlot holds the fallback image the loop draws. Any goroutine may
// replace it; replaced textures are retired and handed to the loop thread,
// which alone frees GPU storage.
type imageSlot struct {
	mu      sync.Mutex
	current *scene.Texture
	retired []*scene.Texture
}

func (s *imageSlot) set(tex *scene.Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current != tex {
		s.retired = append(s.retired, s.current)
	}
	s.current = tex
}

// take returns the image to draw this frame together with every texture
// retired since the last call. The current image is never among them.
func (s *imageSlot) take() (current *scene.Texture, retired []*scene.Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	retired, s.retired = s.retired, nil
	return s.current, retired
}

func (s *imageSlot) shown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}
