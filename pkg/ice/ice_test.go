package ice

import (
	"testing"

	"github.com/stretchr/testify/require"

	"photobooth/pkg/protocol"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("ICE_MODE", "")
	t.Setenv("STUN_URLS", "")
	t.Setenv("TURN_URLS", "")

	mode, servers := LoadFromEnv()
	require.Equal(t, "stun-turn", mode)
	require.Equal(t, []protocol.ICEServer{{URLs: []string{"stun:stun.l.google.com:19302"}}}, servers)
}

func TestLoadFromEnvCustomSTUNAndTURN(t *testing.T) {
	t.Setenv("ICE_MODE", "stun-turn")
	t.Setenv("STUN_URLS", "stun:a.example.com:3478, stun:b.example.com:3478")
	t.Setenv("TURN_URLS", "turn:t.example.com:3478")
	t.Setenv("TURN_USERNAME", "user")
	t.Setenv("TURN_PASSWORD", "pass")

	_, servers := LoadFromEnv()
	require.Equal(t, []protocol.ICEServer{
		{URLs: []string{"stun:a.example.com:3478", "stun:b.example.com:3478"}},
		{URLs: []string{"turn:t.example.com:3478"}, Username: "user", Credential: "pass"},
	}, servers)
}

func TestLoadFromEnvStunOnly(t *testing.T) {
	t.Setenv("ICE_MODE", "stun-only")
	t.Setenv("STUN_URLS", "")
	t.Setenv("TURN_URLS", "turn:t.example.com:3478")

	mode, servers := LoadFromEnv()
	require.Equal(t, "stun-only", mode)
	require.Len(t, servers, 1)
	require.Empty(t, servers[0].Username)
}

func TestLoadFromEnvTurnOnlyWithoutTURNFallsBack(t *testing.T) {
	t.Setenv("ICE_MODE", "turn-only")
	t.Setenv("STUN_URLS", "")
	t.Setenv("TURN_URLS", "")

	mode, servers := LoadFromEnv()
	require.Equal(t, "turn-only", mode)
	require.Equal(t, []protocol.ICEServer{{URLs: []string{"stun:stun.l.google.com:19302"}}}, servers)
}
