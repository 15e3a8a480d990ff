// Package main provides the CLI entrypoint for passgram.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"passgram/internal/candidates"
	"passgram/internal/config"
	"passgram/internal/corpus"
	"passgram/internal/generator"
	"passgram/internal/model"
	"passgram/internal/report"
	"passgram/internal/slots"
	"passgram/internal/snapui"
	"passgram/internal/store"
	"passgram/internal/tokens"
	"passgram/internal/vocab"
)

const (
	defaultAlpha          = 1.0
	defaultMinLength      = 6
	defaultMaxLength      = 64
	defaultMinTokenLength = 3
	defaultTrimEvery      = 500000
	defaultTrimTop        = 250000
	defaultTopTemplates   = 1000
	defaultTopWords       = 2000
	defaultTopDigits      = 500
	defaultFragTableTop   = 200000
	defaultLogEvery       = 100000

	defaultPoolWords  = 2000
	defaultPoolDigits = 500
	defaultPoolFrags  = 2000

	defaultTopKPerSlot     = 300
	defaultBeamSize        = 2000
	defaultBeamPerTpl      = 2000
	defaultBeamTemplates   = 40
	defaultMaxTotal        = 200000
	defaultSamples         = 3000
	defaultSamplePerTpl    = 1000
	defaultSampleTemplates = 60
	defaultSeed            = 42

	defaultRunsLast  = 20
	defaultStatsTop  = 20
	storeTimeout     = 5 * time.Second
	stateFileName    = "state.json"
	snapshotFileName = "snapshot.json"
	fragFileName     = "frags.tsv"
)

var (
	rootConfigPath string
	rootDBPath     string
	rootVerbose    bool

	trainCorpus     string
	trainState      string
	trainSnapshot   string
	trainFrags      string
	trainWordList   string
	trainNoVocab    bool
	trainResume     bool
	trainAlpha      float64
	trainLeet       bool
	trainMinLen     int
	trainMinTokLen  int
	trainMaxSamples int
	trainTrimEvery  int
	trainTrimTop    int
	trainTopTpls    int
	trainTopWords   int
	trainTopDigits  int
	trainFragTop    int

	genSnapshot   string
	genFrags      string
	genOut        string
	genMode       string
	genMinLen     int
	genMaxLen     int
	genPoolWords  int
	genPoolDigits int
	genPoolFrags  int
	genTopK       int
	genBeamSize   int
	genPerTpl     int
	genTemplates  int
	genMaxTotal   int
	genSamples    int
	genSeed       int64

	combineOut string

	scoreState    string
	scoreWordList string
	scoreNoVocab  bool

	statsSnapshot string
	statsTop      int
	statsWidth    int

	inspectSnapshot string
	inspectFrags    string

	runsStage string
	runsLast  int

	logger *zap.Logger
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "passgram",
		Short:         "Password structure model trainer and candidate generator",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// The inspector owns the terminal; logging would tear its UI.
			if cmd.Name() == "inspect" {
				return nil
			}
			cfg := zap.NewProductionConfig()
			if rootVerbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "config file path (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", "", "run history database path (default: XDG data dir)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newTrainCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newCombineCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a password structure model from a corpus",
		Args:  cobra.NoArgs,
		RunE:  runTrainCmd,
	}
	cmd.Flags().StringVar(&trainCorpus, "corpus", "", "training corpus, one password per line")
	cmd.Flags().StringVar(&trainState, "state", "", "model state output path (default: data dir)")
	cmd.Flags().StringVar(&trainSnapshot, "snapshot", "", "snapshot output path (default: data dir)")
	cmd.Flags().StringVar(&trainFrags, "frags", "", "FRAG token table output path (default: data dir)")
	cmd.Flags().StringVar(&trainWordList, "word-list", "", "dictionary word list (default: built-in)")
	cmd.Flags().BoolVar(&trainNoVocab, "no-vocab", false, "train without dictionary classification")
	cmd.Flags().BoolVar(&trainResume, "resume", false, "resume from an existing state file")
	cmd.Flags().Float64Var(&trainAlpha, "alpha", defaultAlpha, "Laplace smoothing constant")
	cmd.Flags().BoolVar(&trainLeet, "leet", true, "normalize leet substitutions")
	cmd.Flags().IntVar(&trainMinLen, "min-length", defaultMinLength, "skip corpus lines shorter than this")
	cmd.Flags().IntVar(&trainMinTokLen, "min-token-length", defaultMinTokenLength, "minimum FRAG token length kept")
	cmd.Flags().IntVar(&trainMaxSamples, "max-samples", 0, "stop after this many kept lines (0 = all)")
	cmd.Flags().IntVar(&trainTrimEvery, "trim-every", defaultTrimEvery, "trim slot tables every N lines (0 = never)")
	cmd.Flags().IntVar(&trainTrimTop, "trim-top", defaultTrimTop, "entries kept per slot table at each trim")
	cmd.Flags().IntVar(&trainTopTpls, "top-templates", defaultTopTemplates, "templates kept in the snapshot")
	cmd.Flags().IntVar(&trainTopWords, "top-words", defaultTopWords, "WORD tokens kept in the snapshot")
	cmd.Flags().IntVar(&trainTopDigits, "top-digits", defaultTopDigits, "DIGITS tokens kept in the snapshot")
	cmd.Flags().IntVar(&trainFragTop, "frag-table-top", defaultFragTableTop, "FRAG tokens kept in the token table")
	return cmd
}

func runTrainCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "alpha", &trainAlpha, fileCfg.Train.Alpha)
	applyBoolConfig(cmd, "leet", &trainLeet, fileCfg.Train.Leet)
	applyIntConfig(cmd, "min-length", &trainMinLen, fileCfg.Train.MinLength)
	applyIntConfig(cmd, "min-token-length", &trainMinTokLen, fileCfg.Train.MinTokenLength)
	applyIntConfig(cmd, "max-samples", &trainMaxSamples, fileCfg.Train.MaxSamples)
	applyIntConfig(cmd, "trim-every", &trainTrimEvery, fileCfg.Train.TrimEvery)
	applyIntConfig(cmd, "trim-top", &trainTrimTop, fileCfg.Train.TrimTop)
	applyIntConfig(cmd, "top-templates", &trainTopTpls, fileCfg.Train.TopTemplates)
	applyIntConfig(cmd, "top-words", &trainTopWords, fileCfg.Train.TopWords)
	applyIntConfig(cmd, "top-digits", &trainTopDigits, fileCfg.Train.TopDigits)
	applyIntConfig(cmd, "frag-table-top", &trainFragTop, fileCfg.Train.FragTableTop)
	applyStringConfig(cmd, "word-list", &trainWordList, fileCfg.Paths.WordList)

	if trainCorpus == "" {
		return fmt.Errorf("--corpus is required")
	}
	if trainAlpha <= 0 {
		return fmt.Errorf("--alpha must be > 0")
	}
	statePath := dataPath(trainState, stateFileName)
	snapshotPath := dataPath(trainSnapshot, snapshotFileName)
	fragPath := dataPath(trainFrags, fragFileName)

	voc, err := resolveVocab(trainWordList, trainNoVocab)
	if err != nil {
		return err
	}

	log := activeLogger()
	m, err := openModel(statePath, voc, log)
	if err != nil {
		return err
	}

	started := time.Now()
	corpusFile, err := os.Open(trainCorpus)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	scanOpts := corpus.Options{MinLength: trainMinLen, MaxSamples: int64(trainMaxSamples)}
	lines, err := m.Fit(corpus.NewScanner(corpusFile, scanOpts), model.FitOptions{
		TrimEvery: int64(trainTrimEvery),
		TrimTop:   trainTrimTop,
		LogEvery:  defaultLogEvery,
	})
	if cerr := corpusFile.Close(); cerr != nil {
		logErrf("failed to close corpus: %v\n", cerr)
	}
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	log.Info("model fitted",
		zap.Int64("lines", lines),
		zap.Int("unique_templates", m.UniqueTemplates()))

	fragTable, err := extractFrags(trainCorpus, scanOpts, voc)
	if err != nil {
		return err
	}

	if err := m.SaveState(statePath); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	var filter *model.Filter
	if trainMinLen > 0 {
		filter = &model.Filter{MinLen: trainMinLen}
	}
	snap := m.Snapshot(trainTopTpls, trainTopWords, trainTopDigits, filter)
	if err := model.SaveSnapshot(snapshotPath, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if err := fragTable.WriteFile(fragPath); err != nil {
		return fmt.Errorf("failed to save FRAG table: %w", err)
	}

	log.Info("training complete",
		zap.String("state", statePath),
		zap.String("snapshot", snapshotPath),
		zap.String("frags", fragPath),
		zap.Int("frag_tokens", len(fragTable)))
	recordRun(store.Run{
		Stage:      "train",
		Input:      trainCorpus,
		Output:     snapshotPath,
		Lines:      lines,
		Produced:   int64(m.UniqueTemplates()),
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
	return nil
}

// openModel loads an existing state for resumed training, or starts fresh.
func openModel(statePath string, voc slots.Vocabulary, log *zap.Logger) (*model.Model, error) {
	if trainResume {
		m, err := model.LoadState(statePath, voc, log)
		if err == nil {
			log.Info("resuming training",
				zap.String("state", statePath),
				zap.Int64("observations", m.TotalTemplates()))
			return m, nil
		}
		if !errors.Is(err, model.ErrStateNotFound) {
			return nil, fmt.Errorf("failed to load state: %w", err)
		}
		logErrf("no state at %s; starting fresh\n", statePath)
	}
	return model.New(model.Options{
		Alpha:  trainAlpha,
		Leet:   trainLeet,
		Vocab:  voc,
		Logger: log,
	}), nil
}

// extractFrags runs the second corpus pass that builds the FRAG table.
func extractFrags(path string, scanOpts corpus.Options, voc slots.Vocabulary) (tokens.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen corpus: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close corpus: %v\n", cerr)
		}
	}()
	table, err := tokens.Extract(corpus.NewScanner(f, scanOpts), tokens.ExtractOptions{
		Leet:           trainLeet,
		Vocab:          voc,
		MinTokenLength: trainMinTokLen,
		Top:            trainFragTop,
	})
	if err != nil {
		return nil, fmt.Errorf("FRAG extraction failed: %w", err)
	}
	return table, nil
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ranked password candidates from a snapshot",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	cmd.Flags().StringVar(&genSnapshot, "snapshot", "", "snapshot path (default: data dir)")
	cmd.Flags().StringVar(&genFrags, "frags", "", "FRAG token table path (default: data dir)")
	cmd.Flags().StringVar(&genOut, "out", "", "candidate output path (default: data dir)")
	cmd.Flags().StringVar(&genMode, "mode", "beam", "generation mode: beam or stochastic")
	cmd.Flags().IntVar(&genMinLen, "min-length", defaultMinLength, "minimum candidate length")
	cmd.Flags().IntVar(&genMaxLen, "max-length", defaultMaxLength, "maximum candidate length (beam)")
	cmd.Flags().IntVar(&genPoolWords, "pool-words", defaultPoolWords, "WORD tokens drawn from the snapshot")
	cmd.Flags().IntVar(&genPoolDigits, "pool-digits", defaultPoolDigits, "DIGITS tokens drawn from the snapshot")
	cmd.Flags().IntVar(&genPoolFrags, "pool-frags", defaultPoolFrags, "FRAG tokens drawn from the table")
	cmd.Flags().IntVar(&genTopK, "topk-per-slot", defaultTopKPerSlot, "beam choices per slot")
	cmd.Flags().IntVar(&genBeamSize, "beam-size", defaultBeamSize, "beam width between slots")
	cmd.Flags().IntVar(&genPerTpl, "per-template", 0, "candidates kept per template (0 = mode default)")
	cmd.Flags().IntVar(&genTemplates, "templates", 0, "templates attempted (0 = mode default)")
	cmd.Flags().IntVar(&genMaxTotal, "max-total", defaultMaxTotal, "global candidate cap (beam)")
	cmd.Flags().IntVar(&genSamples, "samples", defaultSamples, "draws per template (stochastic)")
	cmd.Flags().Int64Var(&genSeed, "seed", defaultSeed, "sampler seed (stochastic)")
	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "min-length", &genMinLen, fileCfg.Generate.MinLength)
	applyIntConfig(cmd, "max-length", &genMaxLen, fileCfg.Generate.MaxLength)
	applyIntConfig(cmd, "pool-words", &genPoolWords, fileCfg.Generate.PoolWords)
	applyIntConfig(cmd, "pool-digits", &genPoolDigits, fileCfg.Generate.PoolDigits)
	applyIntConfig(cmd, "pool-frags", &genPoolFrags, fileCfg.Generate.PoolFrags)
	applyIntConfig(cmd, "topk-per-slot", &genTopK, fileCfg.Beam.TopKPerSlot)
	applyIntConfig(cmd, "beam-size", &genBeamSize, fileCfg.Beam.BeamSize)
	applyIntConfig(cmd, "max-total", &genMaxTotal, fileCfg.Beam.MaxTotal)
	applyIntConfig(cmd, "samples", &genSamples, fileCfg.Stochastic.Samples)
	applyInt64Config(cmd, "seed", &genSeed, fileCfg.Stochastic.Seed)
	switch genMode {
	case "beam":
		applyIntConfig(cmd, "per-template", &genPerTpl, fileCfg.Beam.PerTemplate)
		applyIntConfig(cmd, "templates", &genTemplates, fileCfg.Beam.Templates)
		if genPerTpl == 0 {
			genPerTpl = defaultBeamPerTpl
		}
		if genTemplates == 0 {
			genTemplates = defaultBeamTemplates
		}
	case "stochastic":
		applyIntConfig(cmd, "per-template", &genPerTpl, fileCfg.Stochastic.PerTemplate)
		applyIntConfig(cmd, "templates", &genTemplates, fileCfg.Stochastic.Templates)
		if genPerTpl == 0 {
			genPerTpl = defaultSamplePerTpl
		}
		if genTemplates == 0 {
			genTemplates = defaultSampleTemplates
		}
	default:
		return fmt.Errorf("--mode must be beam or stochastic, got %q", genMode)
	}

	snapshotPath := dataPath(genSnapshot, snapshotFileName)
	snap, err := model.LoadSnapshot(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	fragTable, err := loadFragTable(cmd, genFrags)
	if err != nil {
		return err
	}

	log := activeLogger()
	gen := generator.New(snap, fragTable, generator.Options{
		TopWords:  genPoolWords,
		TopDigits: genPoolDigits,
		TopFrags:  genPoolFrags,
		Seed:      genSeed,
		Logger:    log,
	})

	outPath := dataPath(genOut, "candidates_"+genMode+".txt")
	started := time.Now()
	written, err := writeCandidates(outPath, func(w *bufio.Writer) (int, error) {
		if genMode == "beam" {
			return gen.GenerateBeam(w, generator.BeamDriveOptions{
				Beam: generator.BeamParams{
					TopKPerSlot: genTopK,
					BeamSize:    genBeamSize,
					MinLength:   genMinLen,
					MaxLength:   genMaxLen,
					MaxOutput:   genPerTpl,
				},
				Templates: genTemplates,
				MaxTotal:  genMaxTotal,
			})
		}
		return gen.GenerateSample(w, generator.SampleDriveOptions{
			Sample: generator.SampleParams{
				Samples:   genSamples,
				MinLength: genMinLen,
			},
			PerTemplate: genPerTpl,
			Templates:   genTemplates,
		})
	})
	if err != nil {
		return err
	}

	log.Info("generation complete",
		zap.String("mode", genMode),
		zap.Int("candidates", written),
		zap.String("out", outPath))
	recordRun(store.Run{
		Stage:      "generate",
		Input:      snapshotPath,
		Output:     outPath,
		Produced:   int64(written),
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
	return nil
}

// loadFragTable treats a missing table as an empty pool unless the user
// asked for a specific file.
func loadFragTable(cmd *cobra.Command, flagValue string) (tokens.Table, error) {
	path := dataPath(flagValue, fragFileName)
	table, err := tokens.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !cmd.Flags().Changed("frags") {
			logErrf("no FRAG table at %s; FRAG slots will be empty\n", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load FRAG table: %w", err)
	}
	return table, nil
}

// writeCandidates streams generated lines into a temp file and renames it
// over the target once generation finishes.
func writeCandidates(path string, generate func(*bufio.Writer) (int, error)) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp output: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	written, err := generate(writer)
	if err != nil {
		return 0, fmt.Errorf("generation failed: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush output: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return written, nil
}

func newCombineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine <file>...",
		Short: "Merge candidate files into one deduplicated list",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCombineCmd,
	}
	cmd.Flags().StringVar(&combineOut, "out", "", "combined output path (default: data dir)")
	return cmd
}

func runCombineCmd(_ *cobra.Command, args []string) error {
	outPath := dataPath(combineOut, "candidates_combined.txt")
	started := time.Now()
	n, err := candidates.Combine(activeLogger(), args, outPath)
	if err != nil {
		return fmt.Errorf("combine failed: %w", err)
	}
	recordRun(store.Run{
		Stage:      "combine",
		Input:      strings.Join(args, ","),
		Output:     outPath,
		Lines:      int64(len(args)),
		Produced:   int64(n),
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
	return nil
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [password]...",
		Short: "Score passwords against a trained model",
		RunE:  runScoreCmd,
	}
	cmd.Flags().StringVar(&scoreState, "state", "", "model state path (default: data dir)")
	cmd.Flags().StringVar(&scoreWordList, "word-list", "", "dictionary word list (default: built-in)")
	cmd.Flags().BoolVar(&scoreNoVocab, "no-vocab", false, "classify without a dictionary")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	voc, err := resolveVocab(scoreWordList, scoreNoVocab)
	if err != nil {
		return err
	}
	statePath := dataPath(scoreState, stateFileName)
	m, err := model.LoadState(statePath, voc, activeLogger())
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	passwords := args
	if len(passwords) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				passwords = append(passwords, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}
	if len(passwords) == 0 {
		return fmt.Errorf("no passwords to score")
	}

	out := cmd.OutOrStdout()
	for _, password := range passwords {
		if _, err := fmt.Fprintf(out, "%.6f\t%s\n", m.Score(password), password); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print a snapshot summary",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSnapshot, "snapshot", "", "snapshot path (default: data dir)")
	cmd.Flags().IntVar(&statsTop, "top", defaultStatsTop, "rows shown per table")
	cmd.Flags().IntVar(&statsWidth, "width", 0, "render width (0 = terminal width)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	snap, err := model.LoadSnapshot(dataPath(statsSnapshot, snapshotFileName))
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	width := statsWidth
	if width <= 0 {
		width = report.AutoWidth()
	}
	if err := report.Render(cmd.OutOrStdout(), snap, statsTop, width); err != nil {
		return fmt.Errorf("failed to render stats: %w", err)
	}
	return nil
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Browse a snapshot interactively",
		Args:  cobra.NoArgs,
		RunE:  runInspectCmd,
	}
	cmd.Flags().StringVar(&inspectSnapshot, "snapshot", "", "snapshot path (default: data dir)")
	cmd.Flags().StringVar(&inspectFrags, "frags", "", "FRAG token table path (default: data dir)")
	return cmd
}

func runInspectCmd(cmd *cobra.Command, _ []string) error {
	snap, err := model.LoadSnapshot(dataPath(inspectSnapshot, snapshotFileName))
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	fragTable, err := loadFragTable(cmd, inspectFrags)
	if err != nil {
		return err
	}
	ui := snapui.NewModel(snap, fragTable)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run inspector: %w", err)
	}
	return nil
}

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show pipeline run history",
		Args:  cobra.NoArgs,
		RunE:  runRunsCmd,
	}
	cmd.Flags().StringVar(&runsStage, "stage", "", "filter by stage (train, generate, combine)")
	cmd.Flags().IntVar(&runsLast, "last", defaultRunsLast, "show at most N runs")
	return cmd
}

func runRunsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(resolveDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	runs, err := st.ListRuns(ctx, runsStage, runsLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return fmt.Errorf("no runs recorded")
	}

	out := cmd.OutOrStdout()
	for _, run := range runs {
		took := run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond)
		if _, err := fmt.Fprintf(out, "%s  %-8s  %s  lines=%d produced=%d  %s\n",
			run.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			run.Stage, shortID(run.ID), run.Lines, run.Produced, took); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := rootConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# passgram configuration
# Uncomment a value to enable it. CLI flags override config values.

[train]
# alpha = %.1f            # Laplace smoothing constant
# leet = true             # Normalize leet substitutions
# min-length = %d         # Skip corpus lines shorter than this
# min-token-length = %d   # Minimum FRAG token length kept
# trim-every = %d     # Trim slot tables every N lines
# trim-top = %d       # Entries kept per slot table at each trim
# top-templates = %d    # Templates kept in the snapshot
# top-words = %d        # WORD tokens kept in the snapshot
# top-digits = %d        # DIGITS tokens kept in the snapshot
# frag-table-top = %d # FRAG tokens kept in the token table

[generate]
# min-length = %d         # Minimum candidate length
# max-length = %d        # Maximum candidate length
# pool-words = %d      # WORD tokens drawn from the snapshot
# pool-digits = %d      # DIGITS tokens drawn from the snapshot
# pool-frags = %d      # FRAG tokens drawn from the table

[beam]
# topk-per-slot = %d     # Beam choices per slot
# beam-size = %d        # Beam width between slots
# per-template = %d     # Candidates kept per template
# templates = %d          # Templates attempted
# max-total = %d      # Global candidate cap

[stochastic]
# samples = %d          # Draws per template
# per-template = %d     # Candidates kept per template
# templates = %d          # Templates attempted
# seed = %d               # Sampler seed

[paths]
# word-list = ""          # Dictionary word list path
# db = ""                 # Run history database path
`,
		defaultAlpha,
		defaultMinLength,
		defaultMinTokenLength,
		defaultTrimEvery,
		defaultTrimTop,
		defaultTopTemplates,
		defaultTopWords,
		defaultTopDigits,
		defaultFragTableTop,
		defaultMinLength,
		defaultMaxLength,
		defaultPoolWords,
		defaultPoolDigits,
		defaultPoolFrags,
		defaultTopKPerSlot,
		defaultBeamSize,
		defaultBeamPerTpl,
		defaultBeamTemplates,
		defaultMaxTotal,
		defaultSamples,
		defaultSamplePerTpl,
		defaultSampleTemplates,
		defaultSeed,
	)
}

func loadFileConfig() (config.FileConfig, error) {
	path := rootConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.LoadConfig(path)
}

func resolveVocab(path string, disabled bool) (slots.Vocabulary, error) {
	if disabled {
		return nil, nil
	}
	if path == "" {
		return vocab.Builtin(), nil
	}
	set, err := vocab.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list: %w", err)
	}
	return set, nil
}

func resolveDBPath() string {
	if rootDBPath != "" {
		return rootDBPath
	}
	return config.DefaultDBPath()
}

// dataPath substitutes the default data-dir location when a path flag was
// left empty.
func dataPath(flagValue, name string) string {
	if flagValue != "" {
		return flagValue
	}
	return filepath.Join(config.DefaultDataDir(), name)
}

func activeLogger() *zap.Logger {
	if logger != nil {
		return logger
	}
	return zap.NewNop()
}

// recordRun appends to the run history. History is advisory, so failures
// warn instead of failing the stage that already produced its artifact.
func recordRun(run store.Run) {
	st, err := store.Open(resolveDBPath())
	if err != nil {
		logErrf("failed to open run db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close run db: %v\n", cerr)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if _, err := st.RecordRun(ctx, run); err != nil {
		logErrf("failed to record run: %v\n", err)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
