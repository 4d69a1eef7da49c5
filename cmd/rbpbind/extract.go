package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/rbpeclip/rbpbind/extract"
	"github.com/rbpeclip/rbpbind/interval"
	"v.io/x/lib/cmdline"
)

// extractFlags are shared by the extract and prepare commands.
type extractFlags struct {
	chunkSize   *int
	parallelism *int
	chromosomes *string
	verbose     *bool
}

func addExtractFlags(cmd *cmdline.Command) extractFlags {
	return extractFlags{
		chunkSize:   cmd.Flags.Int("chunk-size", extract.DefaultOpts.ChunkSize, "Number of alignment records loaded and filtered at a time"),
		parallelism: cmd.Flags.Int("parallelism", 0, "Goroutines used within a chunk; 0 = runtime.NumCPU()"),
		chromosomes: cmd.Flags.String("chromosomes", "", `File listing the chromosomes to keep, one per line.
By default chr1..chr22, chrX and chrY are kept.`),
		verbose: cmd.Flags.Bool("verbose", false, "Print log messages"),
	}
}

func (f extractFlags) opts() (extract.Opts, error) {
	opts := extract.DefaultOpts
	opts.ChunkSize = *f.chunkSize
	opts.Parallelism = *f.parallelism
	opts.Verbose = *f.verbose
	if *f.chromosomes != "" {
		ctx := vcontext.Background()
		in, err := file.Open(ctx, *f.chromosomes)
		if err != nil {
			return opts, err
		}
		defer in.Close(ctx) // nolint: errcheck
		if opts.Chromosomes, err = interval.ReadChromosomeSet(in.Reader(ctx)); err != nil {
			return opts, fmt.Errorf("%s: %v", *f.chromosomes, err)
		}
	}
	return opts, nil
}

func newCmdExtract() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "extract",
		Short: "Convert an alignment into 101bp read-start intervals",
		Long: `
Converts the mapped reads of a BAM (or .sam, or .bed[.gz]) file into BED
intervals, keeps reads spanning more than 90 and fewer than 150 bases, rewrites
each as the 101bp window starting at the read start, drops duplicates and
intervals off the canonical chromosomes, and writes the result sorted.
`,
		ArgsName: "in out.bed",
	}
	flags := addExtractFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return env.UsageErrorf("extract takes an input and an output path, but got %v", argv)
		}
		opts, err := flags.opts()
		if err != nil {
			return err
		}
		stats, err := extract.New(opts).Extract(vcontext.Background(), argv[0], argv[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "%s\t%d\t%d\t%d\t%d\t%016x\n", argv[1], stats.Read, stats.Kept, stats.Unique, stats.Written, stats.Checksum)
		return nil
	})
	return cmd
}
