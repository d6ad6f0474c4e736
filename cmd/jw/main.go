package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	jw "github.com/jw-tools/jw/pkg"
)

const version = "1.0.0"

// Exit codes: 0 success (including a clean diff), 1 diff found
// discrepancies, 2 fatal error (unopenable index file, bad arguments).
const (
	exitOK            = 0
	exitDiscrepancies = 1
	exitFatal         = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	if len(argv) > 0 {
		switch argv[0] {
		case "--help", "-h", "help":
			showHelp()
			return exitOK
		case "--version":
			fmt.Printf("jw %s\n", version)
			return exitOK
		}
	}

	opts := defineOptions()
	if err := opts.Parse(argv); err != nil {
		fmt.Fprintf(os.Stderr, "jw: %v\n", err)
		opts.ShowUsage("jw")
		return exitFatal
	}

	cfg, err := jw.LoadConfig(opts.GetString("config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "jw: %v\n", err)
		return exitFatal
	}

	verboseCfg := cfg.GetVerboseConfig()
	if opts.IsSet("verbose") {
		jw.SetVerboseLevel(opts.GetInt("verbose"))
	} else {
		jw.SetVerboseLevel(verboseCfg.Level)
	}
	if opts.IsSet("debug") {
		jw.SetDebugFlags(opts.GetString("debug"))
	} else {
		jw.SetDebugFlags(verboseCfg.Debug)
	}

	shutdownChan := setupSignalHandler()

	// Diff mode runs on recorded indices only and ignores traversal options
	if opts.IsSet("diff") {
		return runDiff(opts, cfg)
	}

	roots := opts.GetArgs()
	if len(roots) == 0 {
		roots = []string{"."}
	}
	if roots[0] == "--" {
		roots, err = readRootsFromStdin()
		if err != nil {
			fmt.Fprintf(os.Stderr, "jw: %v\n", err)
			return exitFatal
		}
	}

	walkOpts, err := walkOptions(opts, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jw: %v\n", err)
		return exitFatal
	}

	// Selecting an algorithm implies checksum mode, matching --csum
	if opts.GetBool("csum") || opts.IsSet("calgo") {
		return runChecksum(opts, cfg, roots, walkOpts, shutdownChan)
	}
	return runTraverse(opts, cfg, roots, walkOpts, shutdownChan)
}

func defineOptions() *ParsedOptions {
	opts := NewParsedOptions()
	opts.DefineOption("live", "l", OptionTypeBool, "",
		"Display results in realtime, rather than collecting first and displaying later.")
	opts.DefineOption("csum", "c", OptionTypeBool, "",
		"Output an index containing the hash of every file using the configured algorithm.")
	opts.DefineOption("calgo", "C", OptionTypeString, "",
		fmt.Sprintf("Hashing algorithm for --csum (%s).", strings.Join(jw.HashAlgorithmNames(), ", ")))
	opts.DefineOption("threads", "t", OptionTypeInt, "",
		"The number of threads to use to hash files in parallel.")
	opts.DefineOption("diff", "D", OptionTypeStringSlice, "",
		"Validate hashes from two or more index files; the first is the baseline.")
	opts.DefineOption("format", "f", OptionTypeString, "",
		"Index record encoding: delimited or fixed-width.")
	opts.DefineOption("depth", "d", OptionTypeInt, "",
		"The recursion depth limit. 0 means unbounded; 1 effectively disables recursion.")
	opts.DefineOption("exclude", "x", OptionTypeString, "",
		"Exclude entry types, comma-separated: files,dirs,dot,other.")
	opts.DefineOption("silent", "S", OptionTypeBool, "",
		"Suppress output, useful for benchmarking or counting entries via --stats.")
	opts.DefineOption("stats", "s", OptionTypeBool, "",
		"Count files, dirs, and other entries, and print a summary at the end.")
	opts.DefineOption("verbose", "v", OptionTypeInt, "",
		"Verbose level (repeat -v to raise).")
	opts.DefineOption("debug", "", OptionTypeString, "",
		"Comma-separated debug flags.")
	opts.DefineOption("config", "", OptionTypeString, "",
		"Path to the config file.")
	return opts
}

// walkOptions merges traversal settings from the config file and command line
func walkOptions(opts *ParsedOptions, cfg *jw.Config) (jw.WalkOptions, error) {
	walkCfg := cfg.GetWalkConfig()

	depth := walkCfg.Depth
	if opts.IsSet("depth") {
		depth = opts.GetInt("depth")
	}

	excludeStr := walkCfg.Exclude
	if opts.IsSet("exclude") {
		excludeStr = opts.GetString("exclude")
	}
	exclude, err := jw.ParseExcludeFlags(excludeStr)
	if err != nil {
		return jw.WalkOptions{}, err
	}

	return jw.WalkOptions{MaxDepth: depth, Exclude: exclude}, nil
}

// outputFormat resolves the record encoding from command line and config
func outputFormat(opts *ParsedOptions, cfg *jw.Config) (string, error) {
	format := cfg.GetOutputConfig().Format
	if opts.IsSet("format") {
		format = opts.GetString("format")
	}
	switch format {
	case jw.FormatDelimited, jw.FormatFixedWidth:
		return format, nil
	default:
		return "", fmt.Errorf("unknown index format: %s", format)
	}
}

// selectedAlgorithm resolves the hash algorithm from command line and config
func selectedAlgorithm(opts *ParsedOptions, cfg *jw.Config) (*jw.HashAlgorithm, error) {
	name := cfg.GetChecksumConfig().Algorithm
	if opts.IsSet("calgo") {
		name = opts.GetString("calgo")
	}
	return jw.GetHashAlgorithm(name)
}

func runDiff(opts *ParsedOptions, cfg *jw.Config) int {
	files := opts.GetStringSlice("diff")
	if len(files) < 2 {
		fmt.Fprintln(os.Stderr, "jw: not enough files to perform a diff, need a baseline and at least one comparison file")
		return exitFatal
	}

	format, err := outputFormat(opts, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jw: %v\n", err)
		return exitFatal
	}

	// Fixed-width records need the algorithm to size the digest prefix
	var algorithm *jw.HashAlgorithm
	if format == jw.FormatFixedWidth {
		algorithm, err = selectedAlgorithm(opts, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jw: %v\n", err)
			return exitFatal
		}
	}

	report, err := jw.DiffIndexFiles(files, format, algorithm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jw: %v\n", err)
		return exitFatal
	}

	report.Render(os.Stdout)
	report.RenderSummary(os.Stdout)

	if report.Total() > 0 {
		return exitDiscrepancies
	}
	return exitOK
}

func runChecksum(opts *ParsedOptions, cfg *jw.Config, roots []string, walkOpts jw.WalkOptions, shutdownChan <-chan struct{}) int {
	algorithm, err := selectedAlgorithm(opts, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jw: %v\n", err)
		return exitFatal
	}

	format, err := outputFormat(opts, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jw: %v\n", err)
		return exitFatal
	}

	outputCfg := cfg.GetOutputConfig()
	workers := cfg.GetChecksumConfig().Threads
	if opts.IsSet("threads") {
		workers = opts.GetInt("threads")
	}

	sink := &jw.ResultSink{
		Mode:   sinkMode(opts, outputCfg),
		Format: format,
		Out:    os.Stdout,
	}

	stats, err := jw.RunChecksum(jw.ChecksumOptions{
		Roots:        roots,
		Algorithm:    algorithm,
		Workers:      workers,
		Hash:         cfg.HashOptionsFromConfig(),
		Walk:         walkOpts,
		CollectStats: opts.GetBool("stats"),
	}, sink, shutdownChan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jw: %v\n", err)
		return exitFatal
	}

	if opts.GetBool("stats") {
		stats.Print(os.Stdout)
	}
	return exitOK
}

func runTraverse(opts *ParsedOptions, cfg *jw.Config, roots []string, walkOpts jw.WalkOptions, shutdownChan <-chan struct{}) int {
	outputCfg := cfg.GetOutputConfig()

	stats, err := jw.Traverse(jw.TraverseOptions{
		Roots:        roots,
		Walk:         walkOpts,
		Live:         opts.GetBool("live") || outputCfg.Live,
		Silent:       opts.GetBool("silent") || outputCfg.Silent,
		CollectStats: opts.GetBool("stats"),
	}, os.Stdout, shutdownChan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jw: %v\n", err)
		return exitFatal
	}

	if opts.GetBool("stats") {
		stats.Print(os.Stdout)
	}
	return exitOK
}

// sinkMode picks the result sink mode: silent wins over live, live over batch
func sinkMode(opts *ParsedOptions, outputCfg *jw.OutputConfig) jw.SinkMode {
	if opts.GetBool("silent") || outputCfg.Silent {
		return jw.SinkSilent
	}
	if opts.GetBool("live") || outputCfg.Live {
		return jw.SinkLive
	}
	return jw.SinkBatch
}

// readRootsFromStdin reads whitespace-separated root paths from one line of
// standard input
func readRootsFromStdin() ([]string, error) {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("failed to read directories from stdin: %w", err)
	}
	roots := strings.Fields(line)
	if len(roots) == 0 {
		return nil, fmt.Errorf("no directories provided on stdin")
	}
	return roots, nil
}

func showHelp() {
	fmt.Printf("jw %s - fast filesystem traversal, checksumming, and index validation\n\n", version)
	fmt.Printf("Usage: jw [OPTIONS] [directories...]\n\n")
	fmt.Printf("Modes:\n")
	fmt.Printf("  (default)         Traverse and print qualifying entries\n")
	fmt.Printf("  -c, --csum        Hash every file and print an index (hex:path per line)\n")
	fmt.Printf("  -D, --diff F...   Validate two or more recorded indices against each other;\n")
	fmt.Printf("                    the first file is the baseline\n\n")
	fmt.Printf("Use -- as the only directory argument to read roots from stdin.\n\n")
	defineOptions().ShowUsage("jw")
	fmt.Printf("\nExit codes: 0 success, 1 diff discrepancies, 2 fatal error.\n")
}
