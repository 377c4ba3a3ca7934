package asset

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/maja42/swraster/hotreload"
)

// TextureKey names a texture within a TextureStore (mirrors
// github.com/maja42/nora's TextureKey).
type TextureKey string

// ID uniquely identifies a loaded texture. If a texture with the same
// TextureKey is reloaded, its ID's generation is bumped so stale
// binding-table entries can be detected, matching nora's texID.
type ID struct {
	Key        TextureKey
	Generation uint32
}

var generationSeq atomic.Uint32

type loadedTexture struct {
	id  ID
	tex *Texture
}

// TextureStore loads textures from PNG files and optionally
// hot-reloads them when their source file changes on disk, publishing
// the refreshed Texture through the onReload callback. Based on
// github.com/maja42/nora's textureStore.go, retargeted from GPU
// texture objects to plain CPU-side Texture values.
type TextureStore struct {
	m       sync.RWMutex
	entries map[TextureKey]loadedTexture
	watcher *hotreload.Watcher
	cancel  context.CancelFunc
}

// NewTextureStore creates a new, empty texture store.
func NewTextureStore() *TextureStore {
	return &TextureStore{
		entries: make(map[TextureKey]loadedTexture),
		watcher: hotreload.NewWatcher(),
	}
}

// Load decodes the PNG file at path into an RGBA8 Texture and stores
// it under key, replacing any previous texture with that key.
func (s *TextureStore) Load(key TextureKey, path string) (*Texture, error) {
	path = filepath.Clean(path)
	logrus.Infof("asset: loading texture %q from %q", key, path)

	tex, err := decodePNG(path)
	if err != nil {
		return nil, fmt.Errorf("asset: load texture %q: %w", key, err)
	}

	s.m.Lock()
	s.entries[key] = loadedTexture{id: ID{Key: key, Generation: generationSeq.Inc()}, tex: tex}
	s.m.Unlock()
	return tex, nil
}

// Resolve returns the currently loaded texture and its ID for key, or
// (nil, ID{}, false) if nothing is loaded under that key.
func (s *TextureStore) Resolve(key TextureKey) (*Texture, ID, bool) {
	s.m.RLock()
	defer s.m.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, ID{}, false
	}
	return e.tex, e.id, true
}

// WatchForChanges starts hot-reloading: when the backing file for key
// changes on disk, the texture is reloaded and onReload is invoked
// with the fresh Texture and ID. Runs until ctx is canceled.
func (s *TextureStore) WatchForChanges(ctx context.Context, key TextureKey, path string, onReload func(*Texture, ID)) error {
	s.watcher.Add(path, key)
	ctx, s.cancel = context.WithCancel(ctx)
	return s.watcher.Watch(ctx, func(k interface{}) {
		tk := k.(TextureKey)
		if tk != key {
			return
		}
		tex, err := s.Load(tk, path)
		if err != nil {
			logrus.Warnf("asset: hot-reload of %q failed: %s", tk, err)
			return
		}
		_, id, _ := s.Resolve(tk)
		logrus.Debugf("asset: hot-reloaded texture %q (generation=%d)", tk, id.Generation)
		onReload(tex, id)
	})
}

// Close stops hot-reloading, if started.
func (s *TextureStore) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func decodePNG(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return NewTexture(bounds.Dx(), bounds.Dy(), RGBA8, rgba.Pix)
}
