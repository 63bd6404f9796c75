package capability

import (
	"os"
	"path/filepath"

	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// modelData is the casbin model for RPC-method capability gating, adapted
// from the teacher's authz/rbac/basic REST-path model: "obj" collapses to
// the method name and the path matcher is dropped, since a method is an
// atomic capability rather than a templated resource path.
var modelData = []byte(`
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`)

// Init wires a casbin enforcer backed by a gorm policy table, mirroring the
// teacher's basic.Init: write the model to a temp file, attach a gorm
// adapter, enable logging/auto-save, load policy, then seed the default
// allow-everything policy set so capability gating is on by default.
func Init(tempDir string, db *gorm.DB, log *zap.Logger) (Gate, *casbin.Enforcer, error) {
	filename := filepath.Join(tempDir, "coredb_casbin_model.conf")
	if err := os.WriteFile(filename, modelData, 0o600); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to write casbin model file %s", filename)
	}

	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create casbin gorm adapter")
	}

	enforcer, err := casbin.NewEnforcer(filename, adapter)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create casbin enforcer")
	}
	enforcer.EnableLog(true)
	enforcer.EnableAutoSave(true)
	enforcer.EnableEnforce(true)
	if log != nil {
		log.Info("capability gate initialised", zap.String("model", filename))
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to load casbin policy")
	}
	if err := SeedDefaultPolicies(enforcer); err != nil {
		return nil, nil, errors.Wrap(err, "failed to seed default capability policies")
	}

	return NewCasbinGate(enforcer), enforcer, nil
}
