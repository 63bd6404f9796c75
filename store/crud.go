package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/value"
)

func gormErr(format string, args ...any) error { return errors.Newf(format, args...) }

func thingRef(table, id string) string { return fmt.Sprintf("%s:%s", table, id) }

func tableAndID(what rpc.Value) (table, id string, hasID bool, err error) {
	if t, ok := what.Table(); ok {
		return t.Name, "", false, nil
	}
	if t, ok := what.Thing(); ok {
		idStr := fmt.Sprintf("%v", t.ID)
		return t.Table, idStr, true, nil
	}
	return "", "", false, gormErr("expected a table or thing reference")
}

func (e *Engine) rowToValue(r Record) (rpc.Value, error) {
	m, err := r.fields()
	if err != nil {
		return rpc.Value{}, err
	}
	obj, _ := fromMap(m).Object()
	obj.Set("id", value.Of(thingRef(r.Table, r.ID)))
	return value.Of(obj), nil
}

func (e *Engine) selectWhat(what rpc.Value) (rpc.Value, error) {
	table, id, hasID, err := tableAndID(what)
	if err != nil {
		return rpc.Value{}, err
	}
	q := e.db.Where("\"table\" = ?", table)
	if hasID {
		q = q.Where("id = ?", id)
	}
	var rows []Record
	if err := q.Find(&rows).Error; err != nil {
		return rpc.Value{}, err
	}
	return e.rowsToArray(rows)
}

func (e *Engine) rowsToArray(rows []Record) (rpc.Value, error) {
	out := make([]rpc.Value, 0, len(rows))
	for _, r := range rows {
		v, err := e.rowToValue(r)
		if err != nil {
			return rpc.Value{}, err
		}
		out = append(out, v)
	}
	return rpc.Of(out), nil
}

func (e *Engine) create(what, data rpc.Value) (rpc.Value, error) {
	table, id, hasID, err := tableAndID(what)
	if err != nil {
		return rpc.Value{}, err
	}
	if !hasID {
		id = uuid.NewString()
	}

	fields := map[string]any{}
	if obj, ok := data.Object(); ok {
		fields = toMap(obj)
	}

	rec := Record{Table: table, ID: id}
	if err := rec.setFields(fields); err != nil {
		return rpc.Value{}, err
	}
	if err := e.db.Create(&rec).Error; err != nil {
		return rpc.Value{}, errors.Wrap(err, "create")
	}
	v, err := e.rowToValue(rec)
	if err != nil {
		return rpc.Value{}, err
	}
	return rpc.Of([]rpc.Value{v}), nil
}

func (e *Engine) insert(what, data rpc.Value) (rpc.Value, error) {
	table, _, _, err := tableAndID(what)
	if err != nil {
		return rpc.Value{}, err
	}

	payloads := []rpc.Value{data}
	if arr, ok := data.Array(); ok {
		payloads = arr
	}

	out := make([]rpc.Value, 0, len(payloads))
	for _, p := range payloads {
		fields := map[string]any{}
		if obj, ok := p.Object(); ok {
			fields = toMap(obj)
		}
		rec := Record{Table: table, ID: uuid.NewString()}
		if err := rec.setFields(fields); err != nil {
			return rpc.Value{}, err
		}
		if err := e.db.Create(&rec).Error; err != nil {
			return rpc.Value{}, errors.Wrap(err, "insert")
		}
		v, err := e.rowToValue(rec)
		if err != nil {
			return rpc.Value{}, err
		}
		out = append(out, v)
	}
	return rpc.Of(out), nil
}

func (e *Engine) targetRows(what rpc.Value, createIfMissing bool) ([]Record, error) {
	table, id, hasID, err := tableAndID(what)
	if err != nil {
		return nil, err
	}
	q := e.db.Where("\"table\" = ?", table)
	if hasID {
		q = q.Where("id = ?", id)
	}
	var rows []Record
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 && hasID && createIfMissing {
		rows = []Record{{Table: table, ID: id}}
	}
	return rows, nil
}

func (e *Engine) update(what, data rpc.Value, opts rpc.StatementOptions) (rpc.Value, error) {
	rows, err := e.targetRows(what, opts.Data != rpc.DataNone)
	if err != nil {
		return rpc.Value{}, err
	}

	var incoming map[string]any
	if obj, ok := data.Object(); ok {
		incoming = toMap(obj)
	}

	out := make([]rpc.Value, 0, len(rows))
	for i := range rows {
		fields, err := rows[i].fields()
		if err != nil {
			return rpc.Value{}, err
		}
		switch opts.Data {
		case rpc.DataContent, rpc.DataReplace:
			fields = incoming
		case rpc.DataMerge, rpc.DataSetList:
			for k, v := range incoming {
				fields[k] = v
			}
		case rpc.DataUnset:
			if arr, ok := data.Array(); ok {
				for _, k := range arr {
					if s, ok := k.String(); ok {
						delete(fields, s)
					}
				}
			}
		}
		if err := rows[i].setFields(fields); err != nil {
			return rpc.Value{}, err
		}
		if err := e.db.Save(&rows[i]).Error; err != nil {
			return rpc.Value{}, errors.Wrap(err, "update")
		}
		v, err := e.rowToValue(rows[i])
		if err != nil {
			return rpc.Value{}, err
		}
		out = append(out, v)
	}
	return rpc.Of(out), nil
}

// patchOp mirrors a single RFC-6902-shaped op the reference engine
// understands: {op, path, value}.
type patchOp struct {
	Op    string
	Path  string
	Value rpc.Value
}

func parsePatchOps(data rpc.Value) ([]patchOp, error) {
	arr, ok := data.Array()
	if !ok {
		return nil, gormErr("patch data must be an array of operations")
	}
	ops := make([]patchOp, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.Object()
		if !ok {
			return nil, gormErr("patch operation must be an object")
		}
		opV, _ := obj.Get("op")
		op, _ := opV.String()
		pathV, _ := obj.Get("path")
		path, _ := pathV.String()
		val, _ := obj.Get("value")
		ops = append(ops, patchOp{Op: op, Path: strings.TrimPrefix(path, "/"), Value: val})
	}
	return ops, nil
}

func (e *Engine) patch(what, data rpc.Value, opts rpc.StatementOptions) (rpc.Value, error) {
	ops, err := parsePatchOps(data)
	if err != nil {
		return rpc.Value{}, err
	}
	rows, err := e.targetRows(what, false)
	if err != nil {
		return rpc.Value{}, err
	}

	out := make([]rpc.Value, 0, len(rows))
	for i := range rows {
		fields, err := rows[i].fields()
		if err != nil {
			return rpc.Value{}, err
		}
		for _, op := range ops {
			switch op.Op {
			case "replace", "add":
				fields[op.Path] = toNative(op.Value)
			case "remove":
				delete(fields, op.Path)
			}
		}
		if err := rows[i].setFields(fields); err != nil {
			return rpc.Value{}, err
		}
		if err := e.db.Save(&rows[i]).Error; err != nil {
			return rpc.Value{}, errors.Wrap(err, "patch")
		}
		if opts.Output == rpc.OutputDiff {
			out = append(out, data)
			continue
		}
		v, err := e.rowToValue(rows[i])
		if err != nil {
			return rpc.Value{}, err
		}
		out = append(out, v)
	}
	return rpc.Of(out), nil
}

func (e *Engine) delete(what rpc.Value) (rpc.Value, error) {
	rows, err := e.targetRows(what, false)
	if err != nil {
		return rpc.Value{}, err
	}
	before, err := e.rowsToArray(rows)
	if err != nil {
		return rpc.Value{}, err
	}
	for _, r := range rows {
		if err := e.db.Delete(&Record{}, "\"table\" = ? AND id = ?", r.Table, r.ID).Error; err != nil {
			return rpc.Value{}, errors.Wrap(err, "delete")
		}
	}
	return before, nil
}

func (e *Engine) relate(from, kind, to, data rpc.Value) (rpc.Value, error) {
	table, _, _, err := tableAndID(kind)
	if err != nil {
		if s, ok := kind.String(); ok {
			table = s
		} else {
			return rpc.Value{}, gormErr("relate: kind must resolve to a table")
		}
	}

	fields := map[string]any{}
	if obj, ok := data.Object(); ok {
		fields = toMap(obj)
	}
	fields["in"] = fmt.Sprintf("%v", from.Raw())
	fields["out"] = fmt.Sprintf("%v", to.Raw())

	rec := Record{Table: table, ID: uuid.NewString()}
	if err := rec.setFields(fields); err != nil {
		return rpc.Value{}, err
	}
	if err := e.db.Create(&rec).Error; err != nil {
		return rpc.Value{}, errors.Wrap(err, "relate")
	}
	v, err := e.rowToValue(rec)
	if err != nil {
		return rpc.Value{}, err
	}
	return rpc.Of([]rpc.Value{v}), nil
}

func (e *Engine) startLive(what rpc.Value) (rpc.Value, error) {
	table, _, _, err := tableAndID(what)
	if err != nil {
		return rpc.Value{}, err
	}
	id := uuid.New()
	if err := e.db.Create(&Subscription{ID: id.String(), Table: table}).Error; err != nil {
		return rpc.Value{}, errors.Wrap(err, "live")
	}
	return rpc.Of(id), nil
}

func (e *Engine) stopLive(id rpc.Value) (rpc.Value, error) {
	u, ok := id.UUID()
	if !ok {
		if s, ok := id.String(); ok {
			parsed, err := uuid.Parse(s)
			if err != nil {
				return rpc.Value{}, gormErr("kill: invalid subscription id")
			}
			u = parsed
		} else {
			return rpc.Value{}, gormErr("kill: expected a uuid")
		}
	}
	if err := e.db.Delete(&Subscription{}, "id = ?", u.String()).Error; err != nil {
		return rpc.Value{}, errors.Wrap(err, "kill")
	}
	return rpc.Of(u), nil
}

func (e *Engine) run(name string, version, args rpc.Value) (rpc.Value, error) {
	switch {
	case strings.HasPrefix(name, "fn::"):
		return rpc.Value{}, gormErr("user-defined function not found: %s", name)
	case strings.HasPrefix(name, "ml::"):
		return rpc.Value{}, gormErr("ml model invocation not supported by the reference engine: %s", name)
	default:
		switch name {
		case "time::now":
			return rpc.Of(time.Now().Format(time.RFC3339)), nil
		default:
			return rpc.Value{}, gormErr("unknown built-in function: %s", name)
		}
	}
}
