// Package store holds the Configuration Store: the current user-chosen QR
// parameters and the list of observers that are told about every change.
package store

// Listener receives the full configuration after each change.
type Listener func(Configuration)

// Patch carries a partial update from a form post. Nil fields are left
// untouched.
type Patch struct {
	Content         *string `json:"content,omitempty"`
	Foreground      *string `json:"foreground,omitempty"`
	Background      *string `json:"background,omitempty"`
	Size            *int    `json:"size,omitempty"`
	ErrorCorrection *string `json:"error_correction,omitempty"`
	Style           *string `json:"style,omitempty"`
}

// Store keeps the current Configuration and publishes it to listeners
// whenever a mutation actually changes it.
//
// Store is not safe for concurrent use. It mirrors a single UI thread;
// callers that serve several goroutines must serialise access themselves.
type Store struct {
	cfg       Configuration
	bounds    SizeBounds
	listeners map[int]Listener
	order     []int
	nextID    int
}

// New creates a Store seeded with defaults. The default size is normalised
// to bounds so the size invariant holds from the start.
func New(defaults Configuration, bounds SizeBounds) *Store {
	defaults.Size = bounds.Clamp(defaults.Size)
	return &Store{
		cfg:       defaults,
		bounds:    bounds,
		listeners: make(map[int]Listener),
	}
}

// Get returns a copy of the current configuration.
func (s *Store) Get() Configuration {
	return s.cfg
}

// Bounds returns the size bounds the store clamps to.
func (s *Store) Bounds() SizeBounds {
	return s.bounds
}

// Subscribe registers fn for change notifications. The returned function
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)

	return func() {
		if _, ok := s.listeners[id]; !ok {
			return
		}
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// SetContent replaces the encoded text. Empty content is allowed.
func (s *Store) SetContent(content string) {
	s.mutate(func(c *Configuration) { c.Content = content })
}

// SetForeground sets the module colour string as typed by the user.
func (s *Store) SetForeground(color string) {
	s.mutate(func(c *Configuration) { c.Foreground = color })
}

// SetBackground sets the background colour string as typed by the user.
func (s *Store) SetBackground(color string) {
	s.mutate(func(c *Configuration) { c.Background = color })
}

// SetSize requests a pixel size; the stored value is clamped to the bounds.
func (s *Store) SetSize(px int) {
	px = s.bounds.Clamp(px)
	s.mutate(func(c *Configuration) { c.Size = px })
}

// SetErrorCorrection sets the error-correction level.
func (s *Store) SetErrorCorrection(level Level) {
	s.mutate(func(c *Configuration) { c.ErrorCorrection = level })
}

// SetStyle sets the module style.
func (s *Store) SetStyle(style Style) {
	s.mutate(func(c *Configuration) { c.Style = style })
}

// Apply validates and applies every non-nil field of p, publishing at most
// once. If any field is invalid nothing is changed.
func (s *Store) Apply(p Patch) error {
	next := s.cfg

	if p.Content != nil {
		next.Content = *p.Content
	}
	if p.Foreground != nil {
		next.Foreground = *p.Foreground
	}
	if p.Background != nil {
		next.Background = *p.Background
	}
	if p.Size != nil {
		next.Size = s.bounds.Clamp(*p.Size)
	}
	if p.ErrorCorrection != nil {
		level, err := ParseLevel(*p.ErrorCorrection)
		if err != nil {
			return err
		}
		next.ErrorCorrection = level
	}
	if p.Style != nil {
		style, err := ParseStyle(*p.Style)
		if err != nil {
			return err
		}
		next.Style = style
	}

	s.mutate(func(c *Configuration) { *c = next })
	return nil
}

func (s *Store) mutate(fn func(*Configuration)) {
	prev := s.cfg
	fn(&s.cfg)
	if s.cfg == prev {
		return
	}
	s.publish()
}

// publish snapshots the listener list so a listener may unsubscribe itself.
func (s *Store) publish() {
	cfg := s.cfg
	ids := append([]int(nil), s.order...)
	for _, id := range ids {
		if fn, ok := s.listeners[id]; ok {
			fn(cfg)
		}
	}
}
