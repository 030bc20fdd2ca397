package pclink

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// silentDiscovery 从不产出候选
type silentDiscovery struct{}

type silentHandle struct {
	ch   chan types.Candidate
	once sync.Once
}

func (silentDiscovery) Start(context.Context, string) (interfaces.DiscoveryHandle, error) {
	return &silentHandle{ch: make(chan types.Candidate)}, nil
}

func (h *silentHandle) Candidates() <-chan types.Candidate { return h.ch }
func (h *silentHandle) Err() error                         { return nil }
func (h *silentHandle) Stop()                              { h.once.Do(func() { close(h.ch) }) }

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func startServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(
		WithDataDir(t.TempDir()),
		WithHost("127.0.0.1"),
		WithPort(freePort(t)),
		WithName("desk"),
		WithAdvertise(false),
	)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { srv.Stop(context.Background()) })
	return srv
}

func TestClientServer(t *testing.T) {
	srv := startServer(t)
	assert.Equal(t, "desk", srv.Name())
	assert.Empty(t, srv.Instance())

	cli, err := NewClient(WithDataDir(t.TempDir()), WithDiscovery(silentDiscovery{}))
	require.NoError(t, err)
	assert.Equal(t, types.StateIdle, cli.State().Kind)

	require.NoError(t, cli.Start(context.Background()))
	defer cli.Stop(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("无效配对码", func(t *testing.T) {
		err := cli.SubmitCode(ctx, []byte(`{"name":"desk"}`))
		assert.ErrorIs(t, err, ErrInvalidCode)
		assert.False(t, cli.State().IsConnected())
	})

	t.Run("配对码连接", func(t *testing.T) {
		code := fmt.Sprintf(`{"baseUrl":"http://%s","name":"desk"}`, srv.Addr())
		require.NoError(t, cli.SubmitCode(ctx, []byte(code)))

		require.Eventually(t, func() bool { return cli.State().IsConnected() },
			5*time.Second, 20*time.Millisecond)
		cur, ok := cli.Current()
		require.True(t, ok)
		assert.Equal(t, "http://"+srv.Addr(), cur.String())
		assert.Equal(t, types.StatusConnectedPrefix+cur.String(), cli.Status())

		assert.ErrorIs(t, cli.SubmitCode(ctx, []byte(code)), ErrAlreadyConnected)
	})

	t.Run("记录读写", func(t *testing.T) {
		item, err := cli.Items().Create(ctx, "buy milk")
		require.NoError(t, err)

		_, err = cli.Items().Update(ctx, item.ID, "buy oat milk")
		require.NoError(t, err)

		items, err := cli.Items().List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "buy oat milk", items[0].Title)

		require.NoError(t, cli.Items().Delete(ctx, item.ID))
		assert.ErrorIs(t, cli.Items().Delete(ctx, item.ID), ErrItemNotFound)
	})

	t.Run("忘记服务端", func(t *testing.T) {
		require.NoError(t, cli.Forget(ctx))
		assert.Equal(t, types.StateIdle, cli.State().Kind)
		_, ok := cli.Current()
		assert.False(t, ok)

		_, err := cli.Items().List(ctx)
		assert.ErrorIs(t, err, ErrNotConnected)
	})
}

func TestClientLifecycle(t *testing.T) {
	cli, err := NewClient(WithDataDir(t.TempDir()), WithDiscovery(silentDiscovery{}))
	require.NoError(t, err)

	assert.ErrorIs(t, cli.SubmitCode(context.Background(), []byte(`{"baseUrl":"http://192.168.1.50:4310"}`)), ErrNotRunning)
	assert.Empty(t, cli.MetricsAddr())

	require.NoError(t, cli.Start(context.Background()))
	assert.ErrorIs(t, cli.Start(context.Background()), ErrAlreadyStarted)

	require.Eventually(t, func() bool { return cli.State().Kind == types.StateSearching },
		time.Second, 10*time.Millisecond)

	require.NoError(t, cli.Stop(context.Background()))
	require.NoError(t, cli.Stop(context.Background()))
	assert.Equal(t, types.StateFailed, cli.State().Kind)
	assert.ErrorIs(t, cli.Start(context.Background()), ErrClosed)
}

func TestServerCodes(t *testing.T) {
	srv, err := NewServer(WithDataDir(t.TempDir()), WithHost("127.0.0.1"), WithPort(freePort(t)), WithAdvertise(false))
	require.NoError(t, err)

	_, err = srv.Codes()
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, srv.Start(context.Background()))
	defer srv.Stop(context.Background())

	codes, err := srv.Codes()
	require.NoError(t, err)
	assert.Len(t, codes, len(srv.URLs()))
	for _, c := range codes {
		assert.Contains(t, string(c), `"baseUrl":"http://`)
	}
}

func TestOptions(t *testing.T) {
	_, err := NewServer(WithPort(0))
	assert.Error(t, err)

	_, err = NewClient(WithDataDir(""))
	assert.Error(t, err)

	_, err = NewClient(WithDiscovery(nil))
	assert.Error(t, err)
}
