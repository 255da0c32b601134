package sessions

import (
	"log/slog"
	"net"
	"sync"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(logs.GetLoggerFromLevel(slog.LevelError))
}

func pipeConn(t *testing.T) net.Conn {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return server
}

func TestRegistry(t *testing.T) {
	t.Run("should activate a session and find its handle", func(t *testing.T) {
		req := require.New(t)
		r := newTestRegistry()
		conn := pipeConn(t)

		r.Start("A@X.com", conn)

		req.True(r.IsActive("a@x.com"))
		req.Same(conn, r.HandleFor("a@X.COM"))
		req.Equal([]string{"a@x.com"}, r.ActiveUsers())
	})

	t.Run("should replace the previous session on a new login", func(t *testing.T) {
		req := require.New(t)
		r := newTestRegistry()
		old := pipeConn(t)
		fresh := pipeConn(t)

		r.Start("a@x.com", old)
		r.Start("a@x.com", fresh)

		req.Equal(1, r.ActiveCount())
		req.Same(fresh, r.HandleFor("a@x.com"))
	})

	t.Run("should treat ending a non-session as a no-op", func(t *testing.T) {
		r := newTestRegistry()
		r.End("ghost@x.com")
		require.False(t, r.IsActive("ghost@x.com"))
		require.Nil(t, r.HandleFor("ghost@x.com"))
	})

	t.Run("should clear every session at once", func(t *testing.T) {
		req := require.New(t)
		r := newTestRegistry()
		r.Start("a@x.com", pipeConn(t))
		r.Start("b@x.com", pipeConn(t))

		r.ClearAll()

		req.Zero(r.ActiveCount())
		req.False(r.IsActive("a@x.com"))
	})

	t.Run("should survive concurrent starts and ends", func(t *testing.T) {
		r := newTestRegistry()
		conn := pipeConn(t)
		var wg sync.WaitGroup

		for range 32 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				r.Start("a@x.com", conn)
			}()
			go func() {
				defer wg.Done()
				r.End("a@x.com")
			}()
		}
		wg.Wait()
		// Last writer wins; either outcome is valid, the map just must not race.
		require.LessOrEqual(t, r.ActiveCount(), 1)
	})
}
