package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/rbpeclip/rbpbind/bootstrap"
	"github.com/rbpeclip/rbpbind/model"
	"v.io/x/lib/cmdline"
)

func newCmdPredict() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "predict",
		Short: "Predict the binding affinity of an RBP to 101bp intervals",
		Long: `
Scores each input BED file with the named rbp_eclip model. By default a
bootstrap sample of sample-size*iterations intervals, drawn with replacement,
is scored; with -sample=false the whole file is scored. Scores are written one
per line, in interval order, to
<output_dir>/<bed name without extension>.<count>.<model>_pred.txt,
e.g. control.50000.SRSF1_pred.txt for control.bed. Existing files are
overwritten.
`,
		ArgsName: "model genome gtf output_dir bedfile...",
		ArgsLong: `
model is the RBP model name, e.g. SRSF1.
genome is the human genome FASTA file.
gtf is the human genome GTF annotation file.
output_dir receives the score files; it is created if needed.
bedfile are input BED files containing 101bp intervals.
`,
	}
	sample := cmd.Flags.Bool("sample", true, "Score a bootstrap sample drawn with replacement; otherwise score the entire file")
	sampleSize := cmd.Flags.Int("sample-size", bootstrap.DefaultBootstrap.Size, "Intervals drawn per bootstrap iteration")
	iterations := cmd.Flags.Int("iterations", bootstrap.DefaultBootstrap.Iterations, "Number of bootstrap iterations")
	seed := cmd.Flags.Int64("seed", bootstrap.DefaultOpts.Seed, "Bootstrap random seed")
	batchSize := cmd.Flags.Int("batch-size", bootstrap.DefaultOpts.BatchSize, "Intervals scored per inference call")
	outputFilename := cmd.Flags.String("output-filename", "", `Score file name. Only valid with a single bedfile.
Defaults to <bed prefix>.<count>.<model>_pred.txt`)
	runtime := cmd.Flags.String("runtime", model.DefaultRuntime, "Model runtime executable")
	verbose := cmd.Flags.Bool("verbose", false, "Print log messages")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) < 5 {
			return env.UsageErrorf("predict takes model, genome, gtf, output_dir and at least one bedfile, but got %v", argv)
		}
		modelName, genome, gtf, outDir, bedFiles := argv[0], argv[1], argv[2], argv[3], argv[4:]
		if *outputFilename != "" && len(bedFiles) > 1 {
			return env.UsageErrorf("-output-filename requires a single bedfile, but got %d", len(bedFiles))
		}
		opts := bootstrap.DefaultOpts
		opts.Mode = bootstrap.Full{}
		if *sample {
			opts.Mode = bootstrap.Bootstrap{Size: *sampleSize, Iterations: *iterations}
		}
		opts.Seed = *seed
		opts.BatchSize = *batchSize
		opts.FastaFile = genome
		opts.GtfFile = gtf
		opts.OutputDir = outDir
		opts.OutputFilename = *outputFilename
		opts.Verbose = *verbose
		if *verbose {
			log.Printf("verbose printing on")
		}

		ctx := vcontext.Background()
		resolver := model.CommandResolver{Runtime: *runtime, Env: env.Vars}
		pipeline, err := resolver.Resolve(ctx, modelName)
		if err != nil {
			return err
		}
		outs, err := bootstrap.New(pipeline, modelName, opts).PredictAll(ctx, bedFiles)
		for _, out := range outs {
			fmt.Fprintln(env.Stdout, out)
		}
		return err
	})
	return cmd
}
