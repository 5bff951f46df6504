package main

import (
	"io"

	"chemload/internal/adapters/ingest/compound"
	"chemload/internal/modkit"
	"chemload/internal/platform/config"
	"chemload/internal/services/load/domain"
	loadmod "chemload/internal/services/load/module"
	"chemload/internal/services/load/service"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// readerFlags are shared by load and check
type readerFlags struct {
	layout        string
	compression   string
	encoding      string
	progress      string
	progressEvery int
}

func (f *readerFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.layout, "layout", "", "line layout: structure-id | id-structure")
	fs.StringVar(&f.compression, "compression", "", "input compression: auto | gzip | zstd | xz | none")
	fs.StringVar(&f.encoding, "encoding", "", "input text encoding label, e.g. latin1 (default utf-8)")
	fs.StringVar(&f.progress, "progress", "", "progress output: stdout | log | none")
	fs.IntVar(&f.progressEvery, "progress-every", 0, "records between progress messages")
}

// apply overlays changed flags onto options resolved from the environment
func (f *readerFlags) apply(fs *pflag.FlagSet, o loadmod.Options) loadmod.Options {
	if fs.Changed("layout") {
		o.Layout = f.layout
	}
	if fs.Changed("compression") {
		o.Compression = f.compression
	}
	if fs.Changed("encoding") {
		o.Encoding = f.encoding
	}
	if fs.Changed("progress") {
		o.Progress = f.progress
	}
	if fs.Changed("progress-every") {
		o.ProgressEvery = f.progressEvery
	}
	return o
}

// dbFlags select the destination database
type dbFlags struct {
	driver string
	url    string
	logSQL bool
}

func (f *dbFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.driver, "driver", "", "database driver: postgres | sqlite | sqlserver | mysql | clickhouse")
	fs.StringVar(&f.url, "url", "", "connection URL or DSN (sqlite: file path)")
	fs.BoolVar(&f.logSQL, "log-sql", false, "trace every statement through the logger")
}

func (f *dbFlags) apply(fs *pflag.FlagSet, o loadmod.DBOptions) loadmod.DBOptions {
	if fs.Changed("driver") {
		o.Driver = f.driver
	}
	if fs.Changed("url") {
		o.URL = f.url
	}
	if fs.Changed("log-sql") {
		o.LogSQL = f.logSQL
	}
	return o
}

func rootConf() config.Conf { return config.New().Prefix(envPrefix) }

// reporterPorts routes stdout progress through the command's writer
func reporterPorts(cmd *cobra.Command, o loadmod.Options) []modkit.Option {
	if o.Progress != "stdout" {
		return nil
	}
	return []modkit.Option{modkit.WithPorts(domain.Ports{
		Reporter: service.WriterReporter{W: cmd.OutOrStdout()},
	})}
}

// sourceFor maps "-" to stdin
func sourceFor(cmd *cobra.Command, path string) domain.Source {
	if path == "-" {
		return compound.Stream("stdin", io.NopCloser(cmd.InOrStdin()))
	}
	return compound.File(path)
}
