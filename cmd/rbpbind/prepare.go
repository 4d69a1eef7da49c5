package main

import (
	"path/filepath"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/rbpeclip/rbpbind/encode"
	"github.com/rbpeclip/rbpbind/extract"
	"v.io/x/lib/cmdline"
)

func newCmdPrepare() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "prepare",
		Short: "Extract intervals for every alignment listed in a metadata manifest",
		Long: `
Reads a headerless, tab-separated metadata table whose first column is an
ENCODE alignment accession and whose 19th column is the sample label. For each
row, the accession's metadata is fetched from the ENCODE portal and
<bam-dir>/<accession>.bam is extracted to <bed-dir>/<sample>.filt.bed, where
<sample> is the label up to its first '-'.
`,
		ArgsName: "manifest.tsv",
	}
	bamDir := cmd.Flags.String("bam-dir", "data/bam", "Directory holding <accession>.bam files")
	bedDir := cmd.Flags.String("bed-dir", "data/bed", "Output directory for <sample>.filt.bed files")
	encodeURL := cmd.Flags.String("encode-url", encode.DefaultBaseURL, "ENCODE portal base URL")
	lookup := cmd.Flags.Bool("lookup", true, "Fetch each accession's metadata before extracting it")
	flags := addExtractFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return env.UsageErrorf("prepare takes one manifest path, but got %v", argv)
		}
		opts, err := flags.opts()
		if err != nil {
			return err
		}
		ctx := vcontext.Background()
		samples, err := encode.ReadManifest(ctx, argv[0])
		if err != nil {
			return err
		}
		client := &encode.Client{BaseURL: *encodeURL}
		x := extract.New(opts)
		for i, s := range samples {
			if *lookup {
				m, err := client.Lookup(ctx, s.Accession)
				if err != nil {
					return err
				}
				log.Printf("[%d/%d] %s - %s (%s)", i+1, len(samples), s.Accession, s.Name, m)
			} else {
				log.Printf("[%d/%d] %s - %s", i+1, len(samples), s.Accession, s.Name)
			}
			in := filepath.Join(*bamDir, s.Accession+".bam")
			out := filepath.Join(*bedDir, s.Name+".filt.bed")
			if _, err := x.Extract(ctx, in, out); err != nil {
				return err
			}
		}
		return nil
	})
	return cmd
}
