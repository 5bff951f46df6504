// Package schema recreates the destination table before every load
package schema

import (
	"context"

	"chemload/internal/modkit/repokit"
	perr "chemload/internal/platform/errors"
	"chemload/internal/platform/logger"
	"chemload/internal/platform/store"
	"chemload/internal/services/load/dialect"
	"chemload/internal/services/load/domain"
)

// Manager ensures a table exists and is empty
type Manager struct {
	Dialect dialect.Dialect
	// Def supplies column shape; Name is taken from each EnsureTable call
	Def domain.TableDef
	// AtomicDDL runs drop and create in one tx on dialects with transactional DDL
	AtomicDDL bool
}

var _ domain.SchemaPort = (*Manager)(nil)

// New builds a Manager
func New(d dialect.Dialect, def domain.TableDef, atomic bool) *Manager {
	return &Manager{Dialect: d, Def: def.WithDefaults(), AtomicDDL: atomic}
}

// EnsureTable drops name if present and creates it afresh
func (m *Manager) EnsureTable(ctx context.Context, q repokit.Queryer, name string) error {
	if q == nil {
		return perr.Schemaf("schema: nil queryer")
	}
	def := m.Def
	def.Name = name

	if m.AtomicDDL && m.Dialect.TransactionalDDL() {
		if tx, ok := repokit.AsTxRunner(q); ok {
			logger.C(ctx).Debug().Str("dialect", m.Dialect.Name()).Msg("recreating table atomically")
			err := repokit.WithTx(ctx, tx, func(tq repokit.Queryer) error {
				if _, err := tq.Exec(ctx, m.Dialect.DropSQL(name, true)); err != nil {
					return perr.Wrapf(err, perr.ErrorCodeSchema, "drop table %s", name)
				}
				return m.create(ctx, tq, def)
			})
			if err != nil && perr.CodeOf(err) != perr.ErrorCodeSchema {
				return perr.Wrapf(err, perr.ErrorCodeSchema, "recreate table %s", name)
			}
			return err
		}
	}

	exists, err := m.exists(ctx, q, name)
	if err != nil {
		return err
	}
	if exists {
		if _, err := q.Exec(ctx, m.Dialect.DropSQL(name, false)); err != nil {
			// someone else dropped it between the lookup and here
			if !perr.IsUndefinedTable(err) {
				return perr.Wrapf(err, perr.ErrorCodeSchema, "drop table %s", name)
			}
			logger.C(ctx).Debug().Err(err).Msg("table vanished before drop")
		}
	}
	return m.create(ctx, q, def)
}

func (m *Manager) exists(ctx context.Context, q repokit.Queryer, name string) (bool, error) {
	n, err := store.Scalar[int64](ctx, q, m.Dialect.ExistsSQL(), name)
	if err != nil {
		return false, perr.Wrapf(err, perr.ErrorCodeSchema, "check table %s", name)
	}
	logger.C(ctx).Debug().Bool("exists", n > 0).Msg("table lookup")
	return n > 0, nil
}

func (m *Manager) create(ctx context.Context, q repokit.Queryer, def domain.TableDef) error {
	if _, err := q.Exec(ctx, m.Dialect.CreateSQL(def)); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeSchema, "create table %s", def.Name)
	}
	return nil
}
