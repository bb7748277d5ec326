package presenter

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stepdeck/internal/config"
	"github.com/mark3labs/stepdeck/internal/preview"
	"github.com/mark3labs/stepdeck/internal/remote"
	"github.com/mark3labs/stepdeck/internal/share"
	"github.com/mark3labs/stepdeck/internal/state"
)

const talk = "---\n" +
	"title: Talk\n" +
	"---\n" +
	"# Intro\n" +
	"\n" +
	"```go main.go\n" +
	"package main\n" +
	"```\n" +
	"\n" +
	"```preview\n" +
	"Hello\n" +
	"```\n" +
	"\n" +
	"---\n" +
	"\n" +
	"# Middle\n" +
	"\n" +
	"---\n" +
	"\n" +
	"# End\n"

// syncBuffer is a bytes.Buffer safe for the presenter's goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeDeck(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "talk.md")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func quietSettings(dir string) *config.Config {
	cfg := config.Default()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.PreviewAddr = PreviewOff
	cfg.Watch = false
	return cfg
}

func TestPresenter_Headless(t *testing.T) {
	dir := t.TempDir()
	path := writeDeck(t, dir, talk)

	settings := quietSettings(dir)
	settings.PreviewAddr = "127.0.0.1:0"
	settings.SharePort = -1
	settings.Remote = true
	settings.Watch = true

	out := &syncBuffer{}
	p, err := New(Config{DeckPath: path, Settings: settings, Headless: true, Out: out})
	require.NoError(t, err)
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop() }()

	assert.Contains(t, out.String(), "→ 1/3 Intro [main.go]")
	assert.Contains(t, out.String(), "preview")
	assert.Contains(t, out.String(), "share")
	assert.Contains(t, out.String(), "remote")

	endpoint, err := remote.ReadEndpoint(settings.DataDir)
	require.NoError(t, err)
	assert.Contains(t, endpoint, "/mcp")

	p.Control().Next()
	assert.Equal(t, 1, p.Controller().Index())
	assert.Contains(t, out.String(), "→ 2/3 Middle")

	resp, err := http.Get(p.preview.URL())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ev, ok, err := share.Latest(ctx, p.js, p.subject)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, ev.Index)

	// Editing the deck reloads it and keeps the position in range.
	require.NoError(t, os.WriteFile(path, []byte("# Only\n\n---\n\n# Two\n"), 0644))
	assert.Eventually(t, func() bool {
		return p.Controller().Len() == 2
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, p.Controller().Index())

	require.NoError(t, p.Stop())
	require.NoError(t, p.Stop(), "stop is idempotent")
	_, err = remote.ReadEndpoint(settings.DataDir)
	assert.ErrorIs(t, err, remote.ErrNoEndpoint)

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	pos, ok := state.Load(settings.DataDir).Position(abs)
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestPresenter_Resume(t *testing.T) {
	dir := t.TempDir()
	path := writeDeck(t, dir, talk)
	settings := quietSettings(dir)

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	st := state.DefaultUIState()
	st.SetPosition(abs, 2)
	require.NoError(t, state.Save(settings.DataDir, st))

	p, err := New(Config{DeckPath: path, Settings: settings, Resume: true, Headless: true, Out: &syncBuffer{}})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Controller().Index())

	start := 0
	p, err = New(Config{DeckPath: path, Settings: settings, Resume: true, Overrides: Overrides{Start: &start}, Headless: true, Out: &syncBuffer{}})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Controller().Index(), "an explicit start wins over the remembered one")
}

func TestPresenter_Follow(t *testing.T) {
	dir := t.TempDir()
	path := writeDeck(t, dir, talk)

	settings := quietSettings(dir)
	settings.SharePort = -1
	presenter, err := New(Config{DeckPath: path, Settings: settings, Headless: true, Out: &syncBuffer{}})
	require.NoError(t, err)
	require.NoError(t, presenter.Start())
	defer func() { _ = presenter.Stop() }()

	presenter.Control().JumpTo(2)

	followerOut := &syncBuffer{}
	follower, err := New(Config{
		DeckPath:  path,
		Settings:  quietSettings(t.TempDir()),
		Headless:  true,
		FollowURL: presenter.ns.ClientURL(),
		Out:       followerOut,
	})
	require.NoError(t, err)
	require.NoError(t, follower.Start())
	defer func() { _ = follower.Stop() }()

	assert.Equal(t, 2, follower.Controller().Index(), "a late joiner starts at the retained position")

	presenter.Control().Prev()
	assert.Eventually(t, func() bool {
		return follower.Controller().Index() == 1
	}, 3*time.Second, 20*time.Millisecond)
	assert.True(t, strings.Contains(followerOut.String(), "→ 2/3 Middle"))
}

func TestPresenter_FollowRendersJoinStep(t *testing.T) {
	dir := t.TempDir()
	path := writeDeck(t, dir, talk)

	settings := quietSettings(dir)
	settings.SharePort = -1
	presenter, err := New(Config{DeckPath: path, Settings: settings, Headless: true, Out: &syncBuffer{}})
	require.NoError(t, err)
	require.NoError(t, presenter.Start())
	defer func() { _ = presenter.Stop() }()

	presenter.Control().JumpTo(2)

	followerSettings := quietSettings(t.TempDir())
	followerSettings.PreviewAddr = "127.0.0.1:0"
	follower, err := New(Config{
		DeckPath:  path,
		Settings:  followerSettings,
		Headless:  true,
		FollowURL: presenter.ns.ClientURL(),
		Out:       &syncBuffer{},
	})
	require.NoError(t, err)
	require.NoError(t, follower.Start())
	defer func() { _ = follower.Stop() }()
	require.NotNil(t, follower.preview)

	url := "ws" + strings.TrimPrefix(follower.preview.URL(), "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg preview.RenderMessage
	require.NoError(t, conn.ReadJSON(&msg), "the join step reaches the follower's browser")
	assert.Equal(t, preview.MessageTypeRender, msg.Type)
	assert.Equal(t, 2, msg.Index)
	assert.Equal(t, 3, msg.Total)
}

func TestPresenter_StopConcurrent(t *testing.T) {
	dir := t.TempDir()
	path := writeDeck(t, dir, talk)

	p, err := New(Config{DeckPath: path, Settings: quietSettings(dir), Headless: true, Out: &syncBuffer{}})
	require.NoError(t, err)
	require.NoError(t, p.Start())

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = p.Stop()
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.NoError(t, p.Stop(), "stopping again is a no-op")
}

func TestNew_MissingDeck(t *testing.T) {
	_, err := New(Config{DeckPath: filepath.Join(t.TempDir(), "nope.md"), Headless: true})
	assert.Error(t, err)
}
