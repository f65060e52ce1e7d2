package font

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// faceKey identifies a shared face: one font file at one size.
type faceKey struct {
	path string
	ppem fixed.Int26_6
}

type fontEntry struct {
	font *sfnt.Font
	refs int // live faces using the font
}

type faceEntry struct {
	face *Face
	refs int // live handles
}

// Manager shares faces between their users. Faces are keyed by (path, size)
// and the parsed font of a path is shared by all of its sizes. Entries are
// reference counted: the last Release of a face drops it, and the font goes
// with its last face.
//
// Clear forgets every entry at once. Handles obtained before a Clear stay
// usable; releasing them later is a no-op.
//
// Handles hand out shared faces, so callers must not SetSize them.
// A Manager is safe for concurrent use.
type Manager struct {
	opt FaceOptions

	// readFile loads a font path; tests replace it.
	readFile func(path string) ([]byte, error)

	mu    sync.Mutex
	gen   uint64
	fonts map[string]*fontEntry
	faces map[faceKey]*faceEntry
}

// NewManager returns an empty manager. opt configures every face it creates;
// opt.Size is ignored in favor of the size passed to Face.
func NewManager(opt FaceOptions) *Manager {
	return &Manager{
		opt:      opt,
		readFile: os.ReadFile,
		fonts:    make(map[string]*fontEntry),
		faces:    make(map[faceKey]*faceEntry),
	}
}

// Handle is one reference to a shared face.
type Handle struct {
	m    *Manager
	key  faceKey
	gen  uint64
	face *Face
	once sync.Once
}

// Face returns the shared face. It stays valid after Release, but the
// manager may then hand it to nobody else.
func (h *Handle) Face() *Face { return h.face }

// Release drops this reference. Calling it more than once is a no-op.
func (h *Handle) Release() {
	h.once.Do(func() { h.m.release(h) })
}

// Face returns a handle to the face of the font at path, size px. An empty
// path selects Go Mono. The font file is read and parsed once per path.
func (m *Manager) Face(path string, px float64) (*Handle, error) {
	if px <= 0 {
		px = DefaultSize
	}
	key := faceKey{path: path, ppem: toFixed(px)}

	m.mu.Lock()
	defer m.mu.Unlock()

	if fe, ok := m.faces[key]; ok {
		fe.refs++
		return &Handle{m: m, key: key, gen: m.gen, face: fe.face}, nil
	}

	fnt, ok := m.fonts[path]
	if !ok {
		f, err := m.load(path)
		if err != nil {
			return nil, err
		}
		fnt = &fontEntry{font: f}
		m.fonts[path] = fnt
	}
	fnt.refs++

	opt := m.opt
	opt.Size = px
	fe := &faceEntry{face: newFace(fnt.font, opt), refs: 1}
	m.faces[key] = fe
	return &Handle{m: m, key: key, gen: m.gen, face: fe.face}, nil
}

func (m *Manager) load(path string) (*sfnt.Font, error) {
	data := gomono.TTF
	if path != "" {
		var err error
		if data, err = m.readFile(path); err != nil {
			return nil, fmt.Errorf("font: read %s: %w", path, err)
		}
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse %s: %w", path, err)
	}
	return f, nil
}

func (m *Manager) release(h *Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h.gen != m.gen {
		return // forgotten by Clear
	}
	fe := m.faces[h.key]
	if fe.refs--; fe.refs > 0 {
		return
	}
	delete(m.faces, h.key)

	fnt := m.fonts[h.key.path]
	if fnt.refs--; fnt.refs == 0 {
		delete(m.fonts, h.key.path)
	}
}

// Clear forgets every face and font. Outstanding handles keep working.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	clear(m.faces)
	clear(m.fonts)
}

// Len returns the number of live faces and parsed fonts.
func (m *Manager) Len() (faces, fonts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.faces), len(m.fonts)
}
