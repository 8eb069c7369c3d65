package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/batch"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/config"
	ioutils "github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/io"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/segment"
)

func main() {
	// Command line flags
	var (
		folderFlag     = flag.String("folder", "", "Folder of images to process")
		configFlag     = flag.String("config", "", "Path to settings file")
		modelFlag      = flag.String("model", "", "Segmentation model (u2netp, u2net, u2net_human_seg, isnet-general-use)")
		outputFlag     = flag.String("output", "", "Custom output directory")
		backgroundFlag = flag.String("background", "", "Background style (matte, transparent, white, black)")
		workersFlag    = flag.Int("workers", 0, "Concurrent images (overrides config)")
		overwriteFlag  = flag.Bool("overwrite", false, "Replace existing output files")
		dryRunFlag     = flag.Bool("dry-run", false, "Resolve output paths without processing")
		noDownloadFlag = flag.Bool("no-download", false, "Fail instead of downloading a missing model")
		verboseFlag    = flag.Bool("verbose", false, "Show verbose output")
		debugFlag      = flag.Bool("debug", false, "Enable debug logging")
	)

	flag.Parse()

	folder := *folderFlag
	if folder == "" && flag.NArg() > 0 {
		folder = flag.Arg(0)
	}
	if folder == "" {
		fmt.Println("bgremove - batch background removal for photogrammetry captures")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  bgremove -folder <dir> [options]")
		fmt.Println("  bgremove <dir> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: bgremove-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *modelFlag != "" {
		settings.Model = *modelFlag
	}
	if *outputFlag != "" {
		settings.OutputMode = "custom"
		settings.CustomOutputDir = *outputFlag
	}
	if *backgroundFlag != "" {
		settings.ApplyBackgroundPreset(*backgroundFlag)
	}
	if *workersFlag > 0 {
		settings.BatchWorkers = *workersFlag
	}
	if *overwriteFlag {
		settings.OverwriteExisting = true
	}

	log := logrus.New()
	if *debugFlag {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, finishing in-flight images...")
		cancel()
	}()

	// Scan the folder
	images, err := ioutils.ScanImages(folder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", folder, err)
		os.Exit(1)
	}
	if len(images) == 0 {
		fmt.Fprintf(os.Stderr, "No supported images in %s\n", folder)
		os.Exit(1)
	}
	fmt.Printf("Found %d images in %s\n", len(images), folder)

	// Dry runs only resolve paths, so the model is neither fetched nor
	// loaded and the command works offline.
	var engine segment.Engine
	if !*dryRunFlag {
		if !*noDownloadFlag {
			var downloading bool
			_, err := segment.FetchModel(ctx, settings.Model, settings.ModelsDir, func(written, total int64) {
				downloading = true
				if total > 0 {
					fmt.Printf("\rDownloading %s: %.1f%% (%.1f/%.1f MB)", settings.Model,
						float64(written)/float64(total)*100, float64(written)/(1<<20), float64(total)/(1<<20))
				} else {
					fmt.Printf("\rDownloading %s: %.1f MB", settings.Model, float64(written)/(1<<20))
				}
			})
			if downloading {
				fmt.Println()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error fetching model: %v\n", err)
				os.Exit(1)
			}
		}

		eng, err := segment.New(settings.Model, append(settings.EngineOptions(), segment.WithLogger(log))...)
		if err != nil {
			if errors.Is(err, segment.ErrModelNotFound) {
				modelsDir := settings.ModelsDir
				if modelsDir == "" {
					modelsDir = segment.DefaultModelsDir()
				}
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintf(os.Stderr, "Place the model file in %s, or re-run without -no-download\n", modelsDir)
			} else {
				fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
			}
			os.Exit(1)
		}
		defer eng.Close()
		engine = eng
	}

	opts, err := settings.ToBatchOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	opts.DryRun = *dryRunFlag
	opts.Log = log

	// The dry-run plan is emitted at verbose level.
	verbose := *verboseFlag || *dryRunFlag

	runner, err := batch.NewRunner(engine, opts, func(event batch.ProgressEvent) {
		if event.Level == batch.LevelVerbose && !verbose {
			return
		}

		prefix := "  "
		switch event.Level {
		case batch.LevelError:
			prefix = "x "
		case batch.LevelWarning:
			prefix = "! "
		case batch.LevelSuccess:
			prefix = "+ "
		case batch.LevelInfo:
			prefix = "> "
		}

		fmt.Println(prefix + event.Message)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	sum, err := runner.Run(ctx, images)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during processing: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	if sum.DryRun {
		fmt.Printf("Dry run: %d images, %d artifacts planned\n", sum.Total, sum.ArtifactsWritten)
		return
	}
	fmt.Printf("Done: %d processed, %d skipped, %d failed, %d cancelled, %d artifacts in %v\n",
		sum.Succeeded, sum.Skipped, sum.Failed, sum.Cancelled, sum.ArtifactsWritten, sum.Elapsed.Round(time.Millisecond))

	if sum.Interrupted {
		os.Exit(130)
	}
	if sum.Failed > 0 {
		os.Exit(1)
	}
}
