package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/brandseed/models"
)

type memStore struct {
	products map[string]*models.Product // by url
	images   map[string][]string
	updates  int
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{products: map[string]*models.Product{}, images: map[string][]string{}}
}

func (m *memStore) FindByURL(_ context.Context, url string) (*models.Product, error) {
	return m.products[url], nil
}

func (m *memStore) CreateProduct(_ context.Context, res *models.ExtractionResult, ownerID string, categoryIDs []string) (string, error) {
	m.nextID++
	id := fmt.Sprintf("p%d", m.nextID)
	m.products[res.SourceURL] = &models.Product{
		ID: id, URL: res.SourceURL, Name: res.Name, Tagline: res.Tagline,
		LogoURL: res.LogoURL, OwnerID: ownerID, CategoryIDs: categoryIDs,
	}
	return id, nil
}

func (m *memStore) AttachImages(_ context.Context, productID string, urls []string) error {
	m.images[productID] = append(m.images[productID], urls...)
	return nil
}

func (m *memStore) ResolveCategories(_ context.Context, slugs []string) ([]string, error) {
	ids := make([]string, len(slugs))
	for i, s := range slugs {
		ids[i] = "cat-" + s
	}
	return ids, nil
}

func (m *memStore) ListProducts(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memStore) UpdateBrand(_ context.Context, productID string, res *models.ExtractionResult) error {
	for _, p := range m.products {
		if p.ID == productID {
			p.Name, p.Tagline, p.LogoURL = res.Name, res.Tagline, res.LogoURL
			m.updates++
			return nil
		}
	}
	return errors.New("missing")
}

type fakeExtractor struct {
	calls []string
	fail  map[string]error
}

func (f *fakeExtractor) Extract(_ context.Context, url string, _ int) (*models.ExtractionResult, error) {
	f.calls = append(f.calls, url)
	if err := f.fail[url]; err != nil {
		return nil, err
	}
	label, _, _ := strings.Cut(strings.TrimPrefix(url, "https://"), ".")
	return &models.ExtractionResult{
		SourceURL:      url,
		Name:           "Brand " + label,
		Tagline:        "Tools for teams that ship.",
		LogoURL:        url + "/logo.svg",
		ScreenshotURLs: []string{url + "/shot.png"},
	}, nil
}

type fakeAssets struct{ fail bool }

func (f fakeAssets) FetchBytes(_ context.Context, url string) ([]byte, error) {
	if f.fail {
		return nil, errors.New("down")
	}
	return []byte("<svg/>"), nil
}

type fakeObjects struct{ keys []string }

func (f *fakeObjects) Store(_ context.Context, _ []byte, key string) (string, error) {
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

func TestNew_RequiresOwner(t *testing.T) {
	_, err := New(&fakeExtractor{}, newMemStore(), Options{})
	assert.Error(t, err)
}

func TestSeedMany_IsolatesFailures(t *testing.T) {
	store := newMemStore()
	store.products["https://already-exists.com"] = &models.Product{ID: "old", URL: "https://already-exists.com"}
	ext := &fakeExtractor{}
	s, err := New(ext, store, Options{OwnerID: "owner"})
	require.NoError(t, err)

	results := s.SeedMany(context.Background(),
		[]string{"https://a.com", "https://already-exists.com", "https://b.com"}, []string{"ai"}, 2)

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, models.ErrCodeDuplicate, results[1].ErrorCode)
	assert.NotEmpty(t, results[1].Error)
	assert.True(t, results[2].Success)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, ext.calls, "duplicates fail before extraction")
	assert.Equal(t, []string{"cat-ai"}, store.products["https://a.com"].CategoryIDs)
	assert.Equal(t, "https://a.com/logo.svg", store.products["https://a.com"].LogoURL, "no storage configured keeps remote url")
}

func TestSeedOne_Failures(t *testing.T) {
	ext := &fakeExtractor{fail: map[string]error{
		"https://blocked.com": models.NewExtractError(models.ErrCodeForbidden, "403", nil),
	}}
	s, err := New(ext, newMemStore(), Options{OwnerID: "owner"})
	require.NoError(t, err)

	r := s.SeedOne(context.Background(), "http://insecure.com", nil, 2)
	assert.False(t, r.Success)
	assert.Equal(t, models.ErrCodeInvalidURL, r.ErrorCode)
	assert.Equal(t, "http://insecure.com", r.URL)

	r = s.SeedOne(context.Background(), "https://blocked.com", nil, 2)
	assert.False(t, r.Success)
	assert.Equal(t, models.ErrCodeForbidden, r.ErrorCode)
}

func TestSeedOne_MirrorsImages(t *testing.T) {
	store := newMemStore()
	objects := &fakeObjects{}
	s, err := New(&fakeExtractor{}, store, Options{OwnerID: "owner", Objects: objects, Assets: fakeAssets{}})
	require.NoError(t, err)

	r := s.SeedOne(context.Background(), "https://acme.com", nil, 2)
	require.True(t, r.Success)

	p := store.products["https://acme.com"]
	assert.True(t, strings.HasPrefix(p.LogoURL, "https://cdn.test/logos/acme-"))
	require.Len(t, store.images[r.ProductID], 1)
	assert.True(t, strings.HasPrefix(store.images[r.ProductID][0], "https://cdn.test/screenshots/acme-"))
}

func TestSeedOne_UploadFailureKeepsRemote(t *testing.T) {
	store := newMemStore()
	s, err := New(&fakeExtractor{}, store, Options{OwnerID: "owner", Objects: &fakeObjects{}, Assets: fakeAssets{fail: true}})
	require.NoError(t, err)

	r := s.SeedOne(context.Background(), "https://acme.com", nil, 2)
	require.True(t, r.Success)
	assert.Equal(t, "https://acme.com/logo.svg", store.products["https://acme.com"].LogoURL)
	assert.Equal(t, []string{"https://acme.com/shot.png"}, store.images[r.ProductID])
}

func TestRefresh(t *testing.T) {
	store := newMemStore()
	store.products["https://good.com"] = &models.Product{
		ID: "g", URL: "https://good.com", Name: "Good", Tagline: "Tools for teams that ship.",
		LogoURL: "https://good.com/logo.svg",
	}
	store.products["https://stale.com"] = &models.Product{
		ID: "s", URL: "https://stale.com", Name: "Stale.com", Tagline: "stale.com",
		LogoURL: "https://stale.com/favicon.ico",
	}
	ext := &fakeExtractor{}
	s, err := New(ext, store, Options{OwnerID: "owner"})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("single url, not stale", func(t *testing.T) {
		res, err := s.Refresh(ctx, RefreshOptions{URL: "https://good.com"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.False(t, res[0].Refreshed)
		assert.Empty(t, ext.calls)
	})

	t.Run("single url, forced", func(t *testing.T) {
		res, err := s.Refresh(ctx, RefreshOptions{URL: "https://good.com", Force: true})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.True(t, res[0].Refreshed)
		assert.Contains(t, res[0].Reasons, "forced")
	})

	t.Run("all records", func(t *testing.T) {
		ext.calls = nil
		res, err := s.Refresh(ctx, RefreshOptions{})
		require.NoError(t, err)
		assert.Len(t, res, 2)
		assert.Equal(t, []string{"https://stale.com"}, ext.calls)
		assert.Equal(t, "Brand stale", store.products["https://stale.com"].Name)
	})

	t.Run("unknown url", func(t *testing.T) {
		_, err := s.Refresh(ctx, RefreshOptions{URL: "https://nope.com"})
		assert.True(t, models.HasCode(err, models.ErrCodeNotFound))
	})
}
