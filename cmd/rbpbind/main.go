package main

/*
rbpbind prepares alignment files for the RBP eCLIP binding-affinity models and
scores interval files with them.

  rbpbind extract in.bam out.bed
  rbpbind prepare manifest.tsv
  rbpbind predict SRSF1 genome.fa genes.gtf outdir control.bed ...
*/

import (
	"github.com/grailbio/base/log"
	"v.io/x/lib/cmdline"
)

func newRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "rbpbind",
		Short:    "Prepare alignments for, and run, RBP binding-affinity models",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdExtract(),
			newCmdPrepare(),
			newCmdPredict(),
		},
	}
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newRoot())
}
