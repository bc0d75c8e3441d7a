package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// fakeVault is an in-memory VaultStore with optimistic-concurrency
// semantics matching the real adapter.
type fakeVault struct {
	mu           sync.Mutex
	files        map[string]domain.VaultFile
	seq          int
	writes       int
	conflictOnce bool
	// conflictContent, when set, lands in the file as the concurrent
	// commit that causes the conflict.
	conflictContent string
	conflictPath    string
}

func newFakeVault() *fakeVault {
	return &fakeVault{files: map[string]domain.VaultFile{}}
}

func (v *fakeVault) put(path, content string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	sha := fmt.Sprintf("sha-%d", v.seq)
	v.files[path] = domain.VaultFile{Path: path, Content: content, SHA: sha}
	return sha
}

func (v *fakeVault) ReadFile(_ context.Context, path string) (*domain.VaultFile, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	f, ok := v.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (v *fakeVault) WriteFile(_ context.Context, path, content, _, sha string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.conflictOnce {
		v.conflictOnce = false
		if v.conflictContent != "" {
			v.seq++
			v.files[v.conflictPath] = domain.VaultFile{
				Path:    v.conflictPath,
				Content: v.conflictContent,
				SHA:     fmt.Sprintf("sha-%d", v.seq),
			}
		}
		return "", domain.ErrConflict
	}
	existing, ok := v.files[path]
	if ok && existing.SHA != sha {
		return "", domain.ErrConflict
	}
	if !ok && sha != "" {
		return "", domain.ErrConflict
	}
	v.seq++
	v.writes++
	newSHA := fmt.Sprintf("sha-%d", v.seq)
	v.files[path] = domain.VaultFile{Path: path, Content: content, SHA: newSHA}
	return newSHA, nil
}

func (v *fakeVault) DeleteFile(_ context.Context, path, _ string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.files, path)
	return nil
}

func (v *fakeVault) ListFiles(_ context.Context, dir string) ([]domain.VaultEntry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	seen := map[string]domain.VaultEntry{}
	for path := range v.files {
		rel := path
		if dir != "" {
			if !strings.HasPrefix(path, dir+"/") {
				continue
			}
			rel = strings.TrimPrefix(path, dir+"/")
		}
		name, rest, nested := strings.Cut(rel, "/")
		_ = rest
		entryPath := name
		if dir != "" {
			entryPath = dir + "/" + name
		}
		if nested {
			seen[name] = domain.VaultEntry{Name: name, Path: entryPath, Type: domain.EntryDir}
		} else {
			seen[name] = domain.VaultEntry{Name: name, Path: entryPath, Type: domain.EntryFile}
		}
	}

	entries := make([]domain.VaultEntry, 0, len(seen))
	for _, e := range seen {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (v *fakeVault) FileExists(_ context.Context, path string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.files[path]
	return ok, nil
}

// fakeBoard is an in-memory BoardClient.
type fakeBoard struct {
	mu       sync.Mutex
	profiles []domain.BoardProfile
	nextID   int
	created  []domain.ClientProfile
	updated  map[string]domain.ClientProfile
	fetchErr error
}

func newFakeBoard(profiles ...domain.BoardProfile) *fakeBoard {
	return &fakeBoard{profiles: profiles, nextID: 1000, updated: map[string]domain.ClientProfile{}}
}

func (b *fakeBoard) FetchProfiles(_ context.Context) ([]domain.BoardProfile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	return append([]domain.BoardProfile(nil), b.profiles...), nil
}

func (b *fakeBoard) FetchProfile(_ context.Context, itemID string) (*domain.BoardProfile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.profiles {
		if p.ItemID == itemID {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *fakeBoard) CreateItem(_ context.Context, profile domain.ClientProfile) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.created = append(b.created, profile)
	return fmt.Sprintf("%d", b.nextID), nil
}

func (b *fakeBoard) UpdateItem(_ context.Context, itemID string, profile domain.ClientProfile) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updated[itemID] = profile
	return nil
}

// fakeProfiles is an in-memory ProfileStore keyed by slug.
type fakeProfiles struct {
	mu   sync.Mutex
	rows map[string]domain.ClientProfile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{rows: map[string]domain.ClientProfile{}}
}

func (s *fakeProfiles) UpsertBySlug(_ context.Context, profile *domain.ClientProfile) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.rows[profile.Slug]
	s.rows[profile.Slug] = *profile
	return !exists, nil
}

func (s *fakeProfiles) GetBySlug(_ context.Context, slug string) (*domain.ClientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (s *fakeProfiles) GetByBoardItemID(_ context.Context, itemID string) (*domain.ClientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.BoardItemID != "" && row.BoardItemID == itemID {
			row := row
			return &row, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeProfiles) List(_ context.Context) ([]domain.ClientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ClientProfile, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (s *fakeProfiles) SetActive(_ context.Context, slug string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[slug]
	if !ok {
		return domain.ErrNotFound
	}
	row.Active = active
	s.rows[slug] = row
	return nil
}

// fakeIndex is an in-memory IndexStore with token-match full-text
// scoring.
type fakeIndex struct {
	mu     sync.Mutex
	chunks map[string][]domain.Chunk
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{chunks: map[string][]domain.Chunk{}}
}

func (s *fakeIndex) ReplaceChunks(_ context.Context, path string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(chunks) == 0 {
		delete(s.chunks, path)
		return nil
	}
	s.chunks[path] = append([]domain.Chunk(nil), chunks...)
	return nil
}

func (s *fakeIndex) DeleteChunks(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, path)
	return nil
}

func (s *fakeIndex) SearchFullText(_ context.Context, query string, limit int) ([]domain.SearchHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms := strings.Fields(strings.ToLower(query))
	var hits []domain.SearchHit
	for path, chunks := range s.chunks {
		for _, c := range chunks {
			text := strings.ToLower(c.Text)
			matched := 0
			for _, term := range terms {
				if strings.Contains(text, term) {
					matched++
				}
			}
			if matched > 0 {
				hits = append(hits, domain.SearchHit{
					Path:      path,
					ChunkText: c.Text,
					Score:     float64(matched) / float64(len(terms)),
				})
			}
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *fakeIndex) SearchSemantic(_ context.Context, embedding []float32, limit int) ([]domain.SearchHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hits []domain.SearchHit
	for path, chunks := range s.chunks {
		for _, c := range chunks {
			if c.Embedding == nil {
				continue
			}
			hits = append(hits, domain.SearchHit{
				Path:      path,
				ChunkText: c.Text,
				Score:     cosine(embedding, c.Embedding),
			})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (sqrt(na) * sqrt(nb))
}

func sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 20; i++ {
		z = (z + x/z) / 2
	}
	return z
}

// fakeEmbedder produces deterministic vectors from text length.
type fakeEmbedder struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return vectorFor(text), nil
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = vectorFor(t)
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int { return 3 }

func (e *fakeEmbedder) ModelName() string { return "fake-embedding" }

func vectorFor(text string) []float32 {
	var sum float32
	for _, r := range text {
		sum += float32(r % 13)
	}
	n := float32(len(text) + 1)
	return []float32{sum / n, n / 100, 1}
}
