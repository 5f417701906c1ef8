package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"tagmatch/internal/apply"
	"tagmatch/internal/beautify"
	"tagmatch/internal/config"
	"tagmatch/internal/fetch"
	"tagmatch/internal/fileio"
	"tagmatch/internal/match"
	"tagmatch/internal/model"
	"tagmatch/internal/parser"
	"tagmatch/internal/tagio"
	"tagmatch/internal/textmatch"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Conventional companion file names discovered next to the audio files.
// Shared names mark listings whose fields apply to every track.
var (
	infoNames   = []string{"info", "config", "meta"}
	sharedNames = []string{"all", "any", "every"}
	coverNames  = []string{"cover", "artwork", "art", "image"}
)

// Options configures a single album run.
type Options struct {
	// Path is the album directory or a single audio file.
	Path string

	// InfoPath is an explicit metadata file. Empty means discover one by
	// its conventional name next to the audio files.
	InfoPath string

	// Shared marks the explicit InfoPath as a shared listing.
	Shared bool

	// ParserMode forces a metadata format. Empty tries every format.
	ParserMode parser.Mode

	// CoverSource is a cover image path or URL. Empty means discover one.
	CoverSource string

	// OutputPath overrides the resolved listing destination.
	OutputPath string

	// Overrides holds literal field values applied to every record.
	Overrides *model.Record

	// Dry previews every mutation without touching the file system.
	Dry bool

	// Backup copies the audio files aside before modifying them.
	Backup bool

	// DeleteDuplicates removes near-identical audio files when they explain
	// a file/record count mismatch.
	DeleteDuplicates bool

	// NoUpdate, NoRename, and NoOutput skip the respective apply steps.
	NoUpdate bool
	NoRename bool
	NoOutput bool
}

// Resolution is the outcome of the resolve phase: the audio files, the merged
// metadata, and the file-to-record associations, ready to be applied.
type Resolution struct {
	// Dir is the album directory.
	Dir string

	// Files are the audio files that survived duplicate filtering, sorted.
	Files []string

	// Set is the merged record set with file assignments in place.
	Set *model.RecordSet

	// Matches maps each matched file to its record.
	Matches map[string]*model.Record

	// CoverSource is the resolved cover path or URL, empty when none.
	CoverSource string
}

// Runner drives the resolve and apply pipeline for album directories.
type Runner struct {
	settings *config.Settings
	client   *fetch.Client
	images   *fileio.ImageService

	stopwordsMatch  textmatch.Stopwords
	stopwordsRename textmatch.Stopwords
	exceptions      map[string]string

	onProgress func(ProgressEvent)
}

// New creates a Runner. Word lists referenced by the settings are loaded
// eagerly so a bad list fails the run before any file is touched.
func New(settings *config.Settings, onProgress func(ProgressEvent)) (*Runner, error) {
	stopwordsMatch, err := config.LoadStopwords(settings.StopwordsMatchPath)
	if err != nil {
		return nil, err
	}
	stopwordsRename, err := config.LoadStopwords(settings.StopwordsRenamePath)
	if err != nil {
		return nil, err
	}
	exceptions, err := config.LoadExceptions(settings.ExceptionsPath)
	if err != nil {
		return nil, err
	}
	client, err := fetch.NewClient(fetch.ProxyConfig{
		Type:    settings.ProxyType,
		Address: settings.ProxyAddress,
		Port:    settings.ProxyPort,
	})
	if err != nil {
		return nil, err
	}
	return &Runner{
		settings:        settings,
		client:          client,
		images:          fileio.NewImageService(),
		stopwordsMatch:  stopwordsMatch,
		stopwordsRename: stopwordsRename,
		exceptions:      exceptions,
		onProgress:      onProgress,
	}, nil
}

// Resolve gathers the audio files and metadata sources under opts.Path,
// merges the sources, and matches every file it can to a record. Nothing is
// modified; the returned Resolution holds the full plan.
func (r *Runner) Resolve(opts Options) (*Resolution, error) {
	files, err := fileio.ListAudioFiles(opts.Path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no audio files under [%s]", opts.Path)
	}
	dir := opts.Path
	if info, err := os.Stat(opts.Path); err == nil && !info.IsDir() {
		dir = filepath.Dir(opts.Path)
	}

	sources, err := r.collectSources(dir, opts)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no metadata sources found under [%s]", dir)
	}

	merged, files, err := match.Merge(sources, files, match.MergeOptions{
		MatchArtist:      r.settings.MatchArtist,
		SharedHint:       opts.Shared,
		DeleteDuplicates: opts.DeleteDuplicates,
		DryRun:           opts.Dry,
		NameThreshold:    r.settings.DuplicateNameThreshold,
		SizeThreshold:    r.settings.DuplicateSizeThreshold,
	})
	if err != nil {
		return nil, err
	}

	if r.settings.Beautify {
		for _, rec := range merged.Records {
			rec.Title = beautify.String(rec.Title, r.stopwordsRename, r.exceptions)
		}
	}

	engine := match.NewEngine(tagio.Reader{}, match.Options{
		UseTagMatch:       r.settings.UseTagMatch,
		UseWordMatch:      r.settings.UseWordMatch,
		StopwordsMatch:    r.stopwordsMatch,
		StopwordsRename:   r.stopwordsRename,
		WordThreshold:     r.settings.WordMatchThreshold,
		LastItemThreshold: r.settings.LastItemThreshold,
	})
	matches, err := engine.Apply(files, merged)
	if err != nil {
		return nil, err
	}
	r.progress(ProgressEvent{
		Message: fmt.Sprintf("Matched %d/%d files in %s", len(matches), len(files), dir),
		Level:   LevelInfo,
	})

	return &Resolution{
		Dir:         dir,
		Files:       files,
		Set:         merged,
		Matches:     matches,
		CoverSource: r.resolveCoverSource(dir, opts),
	}, nil
}

func (r *Runner) collectSources(dir string, opts Options) ([]match.Source, error) {
	var sources []match.Source

	appendFile := func(path string, shared bool, mode parser.Mode) error {
		if mode == "" {
			mode = parser.ModeAny
		}
		set, err := parser.ParseFile(path, mode)
		if err != nil {
			return fmt.Errorf("parsing [%s]: %w", path, err)
		}
		r.progress(ProgressEvent{
			Message: fmt.Sprintf("Parsed %d records from %s", set.Len(), path),
			Level:   LevelVerbose,
		})
		sources = append(sources, match.Source{Shared: shared, Set: set})
		return nil
	}

	if opts.InfoPath != "" {
		if err := appendFile(opts.InfoPath, opts.Shared, opts.ParserMode); err != nil {
			return nil, err
		}
	} else {
		if path, ok := fileio.FindDefaultFile(dir, sharedNames, parser.Extensions()); ok {
			if err := appendFile(path, true, opts.ParserMode); err != nil {
				return nil, err
			}
		}
		if path, ok := fileio.FindDefaultFile(dir, infoNames, parser.Extensions()); ok {
			if err := appendFile(path, false, opts.ParserMode); err != nil {
				return nil, err
			}
		}
	}

	if opts.Overrides != nil && (len(opts.Overrides.Map()) > 0 || opts.Overrides.Cover != nil) {
		set := model.NewRecordSet(true)
		set.Append(opts.Overrides)
		sources = append(sources, match.Source{Shared: true, Set: set})
	}
	return sources, nil
}

func (r *Runner) resolveCoverSource(dir string, opts Options) string {
	if opts.CoverSource != "" {
		return opts.CoverSource
	}
	if path, ok := fileio.FindDefaultFile(dir, coverNames, fileio.ImageExtensions); ok {
		return path
	}
	return ""
}

// Apply executes a resolution: backup, cover preparation, tag writes, file
// renames, and the output listing. With opts.Dry every mutation is logged
// instead of performed.
func (r *Runner) Apply(ctx context.Context, res *Resolution, opts Options) error {
	if opts.Backup && !opts.Dry {
		backupDir := filepath.Join(res.Dir, r.settings.BackupDirName)
		if err := fileio.BackupFiles(ctx, res.Files, backupDir); err != nil {
			return fmt.Errorf("backing up audio files: %w", err)
		}
		r.progress(ProgressEvent{Message: fmt.Sprintf("Backed up %d files to %s", len(res.Files), backupDir), Level: LevelVerbose})
	}

	if err := r.applyCover(ctx, res, opts); err != nil {
		r.progress(ProgressEvent{Message: fmt.Sprintf("Cover error for %s: %v", res.Dir, err), Level: LevelWarning})
	}

	if !opts.NoUpdate {
		if err := apply.Tags(res.Set, opts.Dry); err != nil {
			return err
		}
	}

	if !opts.NoRename {
		err := apply.Rename(res.Set, apply.RenameOptions{
			Format:      r.settings.RenameFormat,
			RenameTitle: r.settings.RenameTitle,
			PrefixTrack: r.settings.PrefixTrack,
			Dry:         opts.Dry,
		})
		if err != nil {
			return err
		}
	}

	if !opts.NoOutput {
		outPath := opts.OutputPath
		if outPath == "" {
			outPath = filepath.Join(res.Dir, r.settings.OutputName)
		}
		format, err := parser.FormatFromName(r.settings.OutputFormat)
		if err != nil {
			return err
		}
		written, err := parser.SaveRecordSet(res.Set, outPath, format, opts.Dry)
		if err != nil {
			return err
		}
		if !opts.Dry {
			r.progress(ProgressEvent{Message: fmt.Sprintf("Saved listing to %s", written), Level: LevelVerbose})
		}
	}

	r.progress(ProgressEvent{Message: fmt.Sprintf("Finished %s", res.Dir), Level: LevelSuccess})
	return nil
}

func (r *Runner) applyCover(ctx context.Context, res *Resolution, opts Options) error {
	if !r.settings.SaveCoverInTags && !r.settings.SaveCoverInFolder {
		return nil
	}
	if res.CoverSource == "" {
		return nil
	}

	var cover *model.Cover
	if fetch.IsURL(res.CoverSource) {
		fetched, err := r.client.FetchCover(ctx, res.CoverSource)
		if err != nil {
			return err
		}
		cover = fetched
	} else {
		cover = &model.Cover{Path: res.CoverSource}
	}

	maxSize := 0
	if r.settings.CoverResize {
		maxSize = r.settings.CoverMaxSize
	}
	if err := r.images.PrepareCover(ctx, cover, maxSize, r.settings.ConvertCoverToJPG); err != nil {
		return err
	}

	if r.settings.SaveCoverInFolder {
		dest := filepath.Join(res.Dir, "cover.jpg")
		if opts.Dry {
			r.progress(ProgressEvent{Message: fmt.Sprintf("Would save cover to %s", dest), Level: LevelInfo})
		} else if err := fileio.WriteFile(ctx, dest, cover.Data); err != nil {
			return err
		}
	}

	if r.settings.SaveCoverInTags {
		for _, rec := range res.Set.Records {
			if rec.Assigned() && rec.Cover == nil {
				rec.Cover = cover
			}
		}
	}
	return nil
}

// Run resolves and applies a single album.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	res, err := r.Resolve(opts)
	if err != nil {
		return err
	}
	return r.Apply(ctx, res, opts)
}

// RunAll processes several albums concurrently, bounded by the configured
// album concurrency. The first error cancels the remaining albums.
func (r *Runner) RunAll(ctx context.Context, runs []Options) error {
	g, ctx := errgroup.WithContext(ctx)
	limit := r.settings.MaxConcurrentAlbums
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, opts := range runs {
		opts := opts // capture
		g.Go(func() error {
			if err := r.Run(ctx, opts); err != nil {
				r.progress(ProgressEvent{Message: fmt.Sprintf("Error processing %s: %v", opts.Path, err), Level: LevelError})
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) progress(event ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(event)
	}
}
