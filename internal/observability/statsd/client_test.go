package statsd

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	c := &Client{prefix: "scagent"}
	tests := map[string]string{
		" navigation/resolved ": "scagent.navigation_resolved",
		"http..request":         "scagent.http.request",
		"a:b|c":                 "scagent.a_b_c",
		"  ":                    "",
	}
	for input, want := range tests {
		assert.Equal(t, want, c.metricName(input), input)
	}

	assert.Equal(t, "plain", (&Client{}).metricName("plain"))
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " web "}
	local := map[string]string{"outcome": " allow ", "": "ignored", "env": "stage"}

	assert.Equal(t, "|#env:stage,outcome:allow,service:web", formatTags(global, local))
	assert.Empty(t, formatTags(nil, nil))
}

func TestClientWritesLines(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     "scagent.",
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer client.Close()
	require.True(t, client.Enabled())

	client.Count("navigation.resolved", 1, map[string]string{"route": "Login"})
	client.Timing("http.request", 1500*time.Microsecond, nil)

	buf := make([]byte, 512)
	var lines []string
	for range 2 {
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, readErr := pc.ReadFrom(buf)
		require.NoError(t, readErr)
		lines = append(lines, string(buf[:n]))
	}

	assert.Equal(t, "scagent.navigation.resolved:1|c|#env:test,route:Login", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "scagent.http.request:1.5|ms"), lines[1])
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{conn: clientConn}
	assert.True(t, client.Enabled())

	require.NoError(t, client.Close())
	assert.False(t, client.Enabled())
	require.NoError(t, client.Close())

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	assert.NoError(t, nilClient.Close())
	nilClient.Count("ignored", 1, nil)
}

func TestNewClientDisabled(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	client, err = NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statsd dial")
}
