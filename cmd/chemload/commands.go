package main

import (
	"fmt"
	"time"

	"chemload/internal/modkit"
	"chemload/internal/modkit/module"
	"chemload/internal/modkit/repokit"
	perr "chemload/internal/platform/errors"
	"chemload/internal/platform/logger"
	"chemload/internal/platform/store"
	"chemload/internal/services/load/domain"
	loadmod "chemload/internal/services/load/module"

	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	var (
		rf          readerFlags
		df          dbFlags
		table       string
		atomicDDL   bool
		asyncCommit bool
	)

	cmd := &cobra.Command{
		Use:   "load <file|->",
		Short: "Recreate the destination table and load every record in one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			cfg := rootConf()

			opts := rf.apply(fs, loadmod.FromConfig(cfg))
			if fs.Changed("table") {
				opts.Table = table
			}
			if fs.Changed("atomic-ddl") {
				opts.AtomicDDL = atomicDDL
			}
			if fs.Changed("async-commit") {
				opts.AsyncCommit = asyncCommit
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			st, err := openStore(cmd, df.apply(fs, loadmod.DBFromConfig(cfg)))
			if err != nil {
				return err
			}
			defer closeStore(cmd, st)

			l := logger.Get()
			m, err := loadmod.NewWithOptions(modkit.Deps{
				Log:    *l,
				Cfg:    cfg,
				DB:     st.DB,
				Driver: st.Driver,
			}, opts, reporterPorts(cmd, opts)...)
			if err != nil {
				return err
			}

			loader := module.MustPortsOf[domain.LoaderPort](m)
			res, err := loader.Load(cmd.Context(), opts.Table, sourceFor(cmd, args[0]))
			if err != nil {
				return err
			}
			l.Info().
				Str("load_id", res.LoadID).
				Str("table", res.Table).
				Int("records", res.RecordsLoaded).
				Str("digest", fmt.Sprintf("%016x", res.Digest)).
				Dur("elapsed", res.Elapsed).
				Msg("load done")
			return nil
		},
	}

	fs := cmd.Flags()
	rf.bind(fs)
	df.bind(fs)
	fs.StringVar(&table, "table", "", "destination table (folded to upper case)")
	fs.BoolVar(&atomicDDL, "atomic-ddl", false, "drop and create inside one transaction where the dialect allows it")
	fs.BoolVar(&asyncCommit, "async-commit", false, "postgres only: SET LOCAL synchronous_commit TO OFF")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var rf readerFlags

	cmd := &cobra.Command{
		Use:   "check <file|->",
		Short: "Parse a file without touching a database and report counts and digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootConf()
			opts := rf.apply(cmd.Flags(), loadmod.FromConfig(cfg))

			m, err := loadmod.NewWithOptions(modkit.Deps{Log: *logger.Get(), Cfg: cfg}, opts, reporterPorts(cmd, opts)...)
			if err != nil {
				return err
			}

			loader := module.MustPortsOf[domain.LoaderPort](m)
			res, err := loader.Check(cmd.Context(), sourceFor(cmd, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "records=%d lines=%d bytes=%d digest=%016x elapsed=%s\n",
				res.RecordsLoaded, res.Lines, res.Bytes, res.Digest, res.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
	rf.bind(cmd.Flags())
	return cmd
}

func newPingCmd() *cobra.Command {
	var df dbFlags

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Open the configured database and check it answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(cmd, df.apply(cmd.Flags(), loadmod.DBFromConfig(rootConf())))
			if err != nil {
				return err
			}
			defer closeStore(cmd, st)

			if err := repokit.Ping(cmd.Context(), st.Driver, st); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", st.Driver)
			return nil
		},
	}
	df.bind(cmd.Flags())
	return cmd
}

// openStore validates db options and opens the single backend
func openStore(cmd *cobra.Command, o loadmod.DBOptions) (*store.Store, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Driver == "" {
		return nil, perr.InvalidArgf("no database driver: set --driver or %s", rootConf().Prefix("DB_").Key("DRIVER"))
	}
	st, err := store.Open(cmd.Context(), o.Store(appName), store.WithLogger(logger.Named("store")))
	if err != nil {
		if _, ok := perr.As(err); !ok {
			err = perr.Wrap(err, perr.ErrorCodeUnavailable, "open database")
		}
		return nil, err
	}
	return st, nil
}

func closeStore(cmd *cobra.Command, st *store.Store) {
	if err := st.Close(cmd.Context()); err != nil {
		logger.Get().Error().Err(err).Msg("failed to close store")
	}
}
