package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tagmatch/internal/config"
	"tagmatch/internal/model"
	"tagmatch/internal/parser"
	"tagmatch/internal/runner"
)

func main() {
	// Command line flags
	var (
		pathFlag   = flag.String("path", "", "Album directory or audio file (positional arguments work too)")
		configFlag = flag.String("config", "", "Path to config file")

		infoFlag   = flag.String("info", "", "Metadata listing file (default: discover info/config/meta next to the audio files)")
		allFlag    = flag.Bool("all", false, "Treat the metadata listing as shared across every file")
		parserFlag = flag.String("parser", "any", "Force the listing format (any, csv, tab, list, json, yaml)")

		outputFlag = flag.String("output", "", "Resolved listing destination (overrides config)")
		formatFlag = flag.String("format", "", "Resolved listing format: yaml, json, csv, tab (overrides config)")
		coverFlag  = flag.String("cover", "", "Cover image path or URL (default: discover cover/artwork next to the audio files)")

		stopwordsFlag  = flag.String("stopwords", "", "Stopword list excluded from fuzzy matching (overrides config)")
		exceptionsFlag = flag.String("exceptions", "", "Casing exceptions for title beautification (overrides config)")
		beautifyFlag   = flag.Bool("beautify", false, "Normalize title casing before applying")

		// Literal field overrides, applied to every matched file
		titleFlag       = flag.String("title", "", "Override the title field")
		artistFlag      = flag.String("artist", "", "Override the artist field")
		albumFlag       = flag.String("album", "", "Override the album field")
		albumArtistFlag = flag.String("album-artist", "", "Override the album artist field")
		trackFlag       = flag.String("track", "", "Override the track number field")
		yearFlag        = flag.String("year", "", "Override the year field")
		genreFlag       = flag.String("genre", "", "Override the genre field")
		durationFlag    = flag.String("duration", "", "Override the duration field")

		dryFlag    = flag.Bool("dry", false, "Preview every change without touching any file")
		backupFlag = flag.Bool("backup", false, "Copy the audio files aside before modifying them")

		renameFormatFlag = flag.String("rename-format", "", "Rename template, e.g. \"%(track)s - %(title)s\" (overrides config)")
		renameTitleFlag  = flag.Bool("rename-title", false, "Rename each file to its title")
		prefixTrackFlag  = flag.Bool("prefix-track", false, "Rename each file to its zero-padded track number and title")

		noRenameFlag      = flag.Bool("no-rename", false, "Skip file renaming")
		noUpdateFlag      = flag.Bool("no-update", false, "Skip tag writing")
		noOutputFlag      = flag.Bool("no-output", false, "Skip writing the resolved listing")
		noMatchArtistFlag = flag.Bool("no-match-artist", false, "Do not fill a missing album artist from the artist")
		noTagMatchFlag    = flag.Bool("no-tag-match", false, "Disable the embedded-title matching heuristics")
		noWordMatchFlag   = flag.Bool("no-word-match", false, "Disable the word-overlap matching heuristics")

		deleteDuplicatesFlag = flag.Bool("delete-duplicates", false, "Remove near-identical audio files when they explain a count mismatch")

		quietFlag   = flag.Bool("quiet", false, "Log errors only")
		warnFlag    = flag.Bool("warn", false, "Log warnings and errors only")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
		debugFlag   = flag.Bool("debug", false, "Show debug output")
	)

	flag.Parse()

	setupLogging(*quietFlag, *warnFlag, *debugFlag)

	// Collect album paths
	paths := flag.Args()
	if *pathFlag != "" {
		paths = append([]string{*pathFlag}, paths...)
	}
	if len(paths) == 0 {
		fmt.Println("tagmatch - Match metadata listings to audio files")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  tagmatch -path <dir> [options]")
		fmt.Println("  tagmatch <dir> [<dir> ...] [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: tagmatch-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputName = *outputFlag
	}
	if *formatFlag != "" {
		settings.OutputFormat = *formatFlag
	}
	if *stopwordsFlag != "" {
		settings.StopwordsMatchPath = *stopwordsFlag
		settings.StopwordsRenamePath = *stopwordsFlag
	}
	if *exceptionsFlag != "" {
		settings.ExceptionsPath = *exceptionsFlag
	}
	if *beautifyFlag {
		settings.Beautify = true
	}
	if *renameFormatFlag != "" {
		settings.RenameFormat = *renameFormatFlag
	}
	if *renameTitleFlag {
		settings.RenameTitle = true
	}
	if *prefixTrackFlag {
		settings.PrefixTrack = true
	}
	if *noMatchArtistFlag {
		settings.MatchArtist = false
	}
	if *noTagMatchFlag {
		settings.UseTagMatch = false
	}
	if *noWordMatchFlag {
		settings.UseWordMatch = false
	}

	mode, err := parser.ModeFromName(*parserFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	overrides, err := buildOverrides(map[string]string{
		model.FieldTitle:       *titleFlag,
		model.FieldArtist:      *artistFlag,
		model.FieldAlbum:       *albumFlag,
		model.FieldAlbumArtist: *albumArtistFlag,
		model.FieldTrack:       *trackFlag,
		model.FieldYear:        *yearFlag,
		model.FieldGenre:       *genreFlag,
		model.FieldDuration:    *durationFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create runner with progress callback
	r, err := runner.New(settings, func(event runner.ProgressEvent) {
		if event.Level == runner.LevelVerbose && !*verboseFlag && !*debugFlag {
			return
		}
		if *quietFlag && event.Level != runner.LevelError {
			return
		}

		prefix := "   "
		switch event.Level {
		case runner.LevelError:
			prefix = " x "
		case runner.LevelWarning:
			prefix = " ! "
		case runner.LevelSuccess:
			prefix = " + "
		case runner.LevelInfo:
			prefix = " > "
		}
		fmt.Println(prefix + event.Message)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runs := make([]runner.Options, len(paths))
	for i, path := range paths {
		runs[i] = runner.Options{
			Path:             path,
			InfoPath:         *infoFlag,
			Shared:           *allFlag,
			ParserMode:       mode,
			CoverSource:      *coverFlag,
			Overrides:        overrides,
			Dry:              *dryFlag,
			Backup:           *backupFlag,
			DeleteDuplicates: *deleteDuplicatesFlag,
			NoUpdate:         *noUpdateFlag,
			NoRename:         *noRenameFlag,
			NoOutput:         *noOutputFlag,
		}
	}

	if err := r.RunAll(ctx, runs); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nCancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dryFlag {
		fmt.Println("\n[Dry run - nothing was modified]")
	}
}

// buildOverrides turns the literal field flags into a record, or nil when
// every flag is empty.
func buildOverrides(fields map[string]string) (*model.Record, error) {
	rec := model.NewRecord("")
	set := false
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := rec.SetField(name, value); err != nil {
			return nil, err
		}
		set = true
	}
	if !set {
		return nil, nil
	}
	return rec, nil
}

func setupLogging(quiet, warn, debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case warn:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
