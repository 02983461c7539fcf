package backend_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	gh "github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitscope.dev/gitscope/internal/auth"
	"gitscope.dev/gitscope/internal/backend"
	"gitscope.dev/gitscope/internal/config"
	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
	"gitscope.dev/gitscope/testhelpers"
)

var devPolicy = backend.Policy{Environment: config.EnvDevelopment, LocalEnabled: true}

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		owner   string
		repo    string
		want    backend.Identity
		wantErr bool
	}{
		{name: "local", path: "/tmp/repo", want: backend.Identity{Kind: repo.KindLocal, Path: "/tmp/repo"}},
		{name: "github", owner: "octo", repo: "hello.world", want: backend.Identity{Kind: repo.KindGitHub, Owner: "octo", Name: "hello.world"}},
		{name: "nothing", wantErr: true},
		{name: "both", path: "/tmp/repo", owner: "octo", repo: "x", wantErr: true},
		{name: "owner only", owner: "octo", wantErr: true},
		{name: "repo only", repo: "x", wantErr: true},
		{name: "bad owner", owner: "oc/to", repo: "x", wantErr: true},
		{name: "bad repo", owner: "octo", repo: "x y", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := backend.ParseIdentity(tt.path, tt.owner, tt.repo)
			if tt.wantErr {
				require.ErrorIs(t, err, gserrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestParseSlug(t *testing.T) {
	id, err := backend.ParseSlug("Octo/Repo")
	require.NoError(t, err)
	assert.Equal(t, "Octo", id.Owner)
	assert.Equal(t, "Repo", id.Name)

	for _, bad := range []string{"octo", "octo/a/b", "/repo"} {
		_, err := backend.ParseSlug(bad)
		assert.ErrorIs(t, err, gserrors.ErrValidation, bad)
	}
}

func TestIdentityKey(t *testing.T) {
	dir := t.TempDir()
	key, err := backend.Identity{Kind: repo.KindLocal, Path: dir + "/sub/.."}.Key()
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(dir), key)

	key, err = backend.Identity{Kind: repo.KindGitHub, Owner: "Octo", Name: "Hello"}.Key()
	require.NoError(t, err)
	assert.Equal(t, "octo/hello", key)
}

func TestPolicy(t *testing.T) {
	tests := []struct {
		env     string
		enabled bool
		allowed bool
	}{
		{config.EnvDevelopment, true, true},
		{config.EnvSelfHosted, true, true},
		{config.EnvProduction, true, false},
		{config.EnvShared, true, false},
		{config.EnvDevelopment, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			err := backend.Policy{Environment: tt.env, LocalEnabled: tt.enabled}.CheckLocal()
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, gserrors.ErrPermission)
			}
		})
	}

	assert.Equal(t, devPolicy, backend.PolicyFromConfig(config.Default()))
}

func TestCacheFirstInsertWins(t *testing.T) {
	cache := backend.NewCache()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	factory := backend.NewFactory(backend.Options{Policy: devPolicy, Cache: cache})

	const workers = 16
	results := make([]repo.Backend, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := factory.Resolve(context.Background(), backend.Identity{Kind: repo.KindLocal, Path: scene.Dir})
			if err == nil {
				results[i] = b
			}
		}(i)
	}
	wg.Wait()

	for _, b := range results {
		require.NotNil(t, b)
		assert.Same(t, results[0], b)
	}
	assert.Equal(t, 1, cache.Len())

	cache.Reset()
	assert.Zero(t, cache.Len())
}

func TestResolveLocal(t *testing.T) {
	ctx := context.Background()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	factory := backend.NewFactory(backend.Options{Policy: devPolicy})

	t.Run("idempotent across spellings", func(t *testing.T) {
		first, err := factory.Resolve(ctx, backend.Identity{Kind: repo.KindLocal, Path: scene.Dir})
		require.NoError(t, err)
		second, err := factory.Resolve(ctx, backend.Identity{Kind: repo.KindLocal, Path: scene.Dir + "/."})
		require.NoError(t, err)
		assert.Same(t, first, second)
		assert.Equal(t, repo.KindLocal, first.Kind())
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := factory.Resolve(ctx, backend.Identity{Kind: repo.KindLocal, Path: filepath.Join(t.TempDir(), "missing")})
		require.ErrorIs(t, err, gserrors.ErrNotFound)
	})

	t.Run("denied by policy", func(t *testing.T) {
		denied := backend.NewFactory(backend.Options{Policy: backend.Policy{Environment: config.EnvShared, LocalEnabled: true}})
		_, err := denied.Resolve(ctx, backend.Identity{Kind: repo.KindLocal, Path: scene.Dir})
		require.ErrorIs(t, err, gserrors.ErrPermission)
		assert.False(t, denied.Validate(ctx, backend.Identity{Kind: repo.KindLocal, Path: scene.Dir}))
	})

	t.Run("validate", func(t *testing.T) {
		assert.True(t, factory.Validate(ctx, backend.Identity{Kind: repo.KindLocal, Path: scene.Dir}))
		assert.False(t, factory.Validate(ctx, backend.Identity{Kind: repo.KindLocal, Path: t.TempDir()}))
	})
}

func TestResolveGitHub(t *testing.T) {
	ctx := context.Background()
	server := testhelpers.NewMockGitHubServerConfig()
	server.AddLinearHistory(1)
	client, owner, name := testhelpers.NewMockGitHubClient(t, server)

	var tokens []string
	newClient := func(_ context.Context, token, _ string) (*gh.Client, error) {
		tokens = append(tokens, token)
		return client, nil
	}

	t.Run("caches by lower-cased owner/name", func(t *testing.T) {
		factory := backend.NewFactory(backend.Options{Tokens: auth.StaticSource("ghp_test"), NewClient: newClient})

		first, err := factory.Resolve(ctx, backend.Identity{Kind: repo.KindGitHub, Owner: owner, Name: name})
		require.NoError(t, err)
		second, err := factory.Resolve(ctx, backend.Identity{Kind: repo.KindGitHub, Owner: "OWNER", Name: "Repo"})
		require.NoError(t, err)
		assert.Same(t, first, second)
		assert.Equal(t, repo.KindGitHub, first.Kind())
		assert.Equal(t, []string{"ghp_test"}, tokens)

		assert.True(t, factory.Validate(ctx, backend.Identity{Kind: repo.KindGitHub, Owner: owner, Name: name}))
		assert.False(t, factory.Validate(ctx, backend.Identity{Kind: repo.KindGitHub, Owner: owner, Name: "missing"}))
	})

	t.Run("github is allowed when local mode is off", func(t *testing.T) {
		factory := backend.NewFactory(backend.Options{
			Policy:    backend.Policy{Environment: config.EnvProduction},
			Tokens:    auth.StaticSource("ghp_test"),
			NewClient: newClient,
		})
		_, err := factory.Resolve(ctx, backend.Identity{Kind: repo.KindGitHub, Owner: owner, Name: name})
		require.NoError(t, err)
	})

	t.Run("missing token", func(t *testing.T) {
		factory := backend.NewFactory(backend.Options{Tokens: auth.StaticSource(""), NewClient: newClient})
		_, err := factory.Resolve(ctx, backend.Identity{Kind: repo.KindGitHub, Owner: owner, Name: name})
		require.ErrorIs(t, err, gserrors.ErrPermission)
		assert.Zero(t, factory.Cache().Len())
	})
}
