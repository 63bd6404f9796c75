package capability

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forbearing/coredb/rpc"
)

func TestAllowAllAllowsEverything(t *testing.T) {
	var g Gate = AllowAll{}
	require.True(t, g.Allowed(rpc.Select))
	require.True(t, g.Allowed(rpc.Delete))
	require.True(t, g.Allowed(rpc.Unknown))
}

func TestNewCasbinGateNilEnforcerFallsBackToAllowAll(t *testing.T) {
	g := NewCasbinGate(nil)
	_, ok := g.(AllowAll)
	require.True(t, ok)
	require.True(t, g.Allowed(rpc.Select))
}

func TestDefaultMethodsCoversEveryKnownMethod(t *testing.T) {
	seen := make(map[rpc.Method]bool, len(DefaultMethods))
	for _, m := range DefaultMethods {
		seen[m] = true
	}
	for _, m := range []rpc.Method{
		rpc.Ping, rpc.Info, rpc.Use, rpc.Signup, rpc.Signin, rpc.Invalidate,
		rpc.Authenticate, rpc.Kill, rpc.Live, rpc.Set, rpc.Unset, rpc.Select,
		rpc.Insert, rpc.InsertRelation, rpc.Create, rpc.Upsert, rpc.Update,
		rpc.Merge, rpc.Patch, rpc.Delete, rpc.Version, rpc.Query, rpc.Relate,
		rpc.Run, rpc.GraphQL,
	} {
		require.True(t, seen[m], "DefaultMethods missing %s", m.String())
	}
}
