package replicaadmin

import (
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/viant/litesql-ha/replica"
	"modernc.org/sqlite/vtab"
)

// ModuleName is the virtual table module name.
const ModuleName = "ha_replicas"

// Source lists replicas, see replica.Manager.
type Source interface {
	Replicas() []*replica.Replica
}

// Module exposes the replicas of a Source as a read-only virtual table.
// Usage:
//
//	CREATE VIRTUAL TABLE temp.replicas USING ha_replicas();
//	SELECT name, dsn, txseq FROM temp.replicas;
//	SELECT txseq FROM temp.replicas WHERE name = 'orders.db';
type Module struct {
	source atomic.Pointer[sourceRef]
}

type sourceRef struct{ Source }

type Table struct{ module *Module }

type Cursor struct {
	table *Table
	rows  []row
	pos   int
}

type row struct {
	name  string
	dsn   string
	txseq int64
}

const (
	idxScan = iota
	idxName
)

// the vtab and function registries are process wide; Register swaps the
// source of the one registered module.
var module = &Module{}

// Register registers the ha_replicas module and the ha_txseq function with
// db, reporting the replicas of source. Both registries are process wide:
// one source is served at a time and a later Register replaces it for every
// database, so an application should register the manager of its single
// ha.Registry.
func Register(db *sql.DB, source Source) error {
	module.source.Store(&sourceRef{source})
	if err := registerFunctions(); err != nil {
		return err
	}
	if err := vtab.RegisterModule(db, ModuleName, module); err != nil {
		if !strings.Contains(err.Error(), "already registered") {
			return err
		}
	}
	return nil
}

func (m *Module) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.Connect(ctx, args)
}

func (m *Module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("%s: need at least 3 args", ModuleName)
	}
	if err := ctx.Declare(fmt.Sprintf("CREATE TABLE %s(name TEXT, dsn TEXT, txseq INTEGER)", args[2])); err != nil {
		return nil, err
	}
	return &Table{module: m}, nil
}

// BestIndex pushes down equality on name.
func (t *Table) BestIndex(info *vtab.IndexInfo) error {
	info.IdxNum = idxScan
	for i := range info.Constraints {
		c := &info.Constraints[i]
		if !c.Usable {
			continue
		}
		if c.Column == 0 && c.Op == vtab.OpEQ {
			c.ArgIndex = 0
			c.Omit = true
			info.IdxNum = idxName
			break
		}
	}
	return nil
}

func (t *Table) Open() (vtab.Cursor, error) { return &Cursor{table: t}, nil }
func (t *Table) Disconnect() error { return nil }
func (t *Table) Destroy() error { return nil }

func (c *Cursor) Filter(idxNum int, idxStr string, vals []vtab.Value) error {
	c.rows = nil
	c.pos = 0
	ref := c.table.module.source.Load()
	if ref == nil || ref.Source == nil {
		return nil
	}
	var name string
	if idxNum == idxName {
		if len(vals) == 0 {
			return nil
		}
		switch v := vals[0].(type) {
		case string:
			name = v
		case []byte:
			name = string(v)
		default:
			return nil
		}
	}
	for _, r := range ref.Replicas() {
		if idxNum == idxName && r.Name() != name {
			continue
		}
		c.rows = append(c.rows, row{name: r.Name(), dsn: r.DSN(), txseq: r.TxSeq()})
	}
	return nil
}

func (c *Cursor) Next() error {
	if c.pos < len(c.rows) {
		c.pos++
	}
	return nil
}

func (c *Cursor) Eof() bool { return c.pos >= len(c.rows) }

func (c *Cursor) Column(col int) (vtab.Value, error) {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, fmt.Errorf("%s: Column out of range", ModuleName)
	}
	switch col {
	case 0:
		return c.rows[c.pos].name, nil
	case 1:
		return c.rows[c.pos].dsn, nil
	case 2:
		return c.rows[c.pos].txseq, nil
	}
	return nil, fmt.Errorf("%s: unsupported column %d", ModuleName, col)
}

func (c *Cursor) Rowid() (int64, error) { return int64(c.pos + 1), nil }
func (c *Cursor) Close() error { c.rows = nil; c.pos = 0; return nil }
