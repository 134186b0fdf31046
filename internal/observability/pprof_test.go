package observability

import (
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-pulse/internal/config"
	"github.com/riskibarqy/fpl-pulse/internal/platform/logging"
)

func TestStartPprofServer_ServesNamedProfiles(t *testing.T) {
	cfg := config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0", ServiceName: "fpl-pulse"}

	srv, err := StartPprofServer(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, srv)
	t.Cleanup(func() { _ = StopPprofServer(srv, logging.NewNop(), time.Second) })

	for _, name := range []string{"mutex", "block", "goroutine"} {
		resp, err := http.Get("http://" + srv.Addr + "/debug/pprof/" + name + "?debug=1")
		require.NoError(t, err, name)
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, name)
		assert.NotEmpty(t, body, name)
	}
}

func TestStartPprofServer_PortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	srv, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: ln.Addr().String()}, logging.NewNop())
	assert.Error(t, err)
	assert.Nil(t, srv)
}
