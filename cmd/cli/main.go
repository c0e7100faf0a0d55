package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/video-downloader-go/internal/app"
	"github.com/yourusername/video-downloader-go/internal/domain"
	"github.com/yourusername/video-downloader-go/internal/infrastructure"
	"github.com/yourusername/video-downloader-go/pkg/logger"
)

var (
	configPath string
	verbose    bool
	rootCmd    = &cobra.Command{
		Use:           "vdl",
		Short:         "vdl - download YouTube and Instagram videos",
		Long:          `A command-line client that asks the download backend to prepare a video and streams the result to disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.LoadEnvFile(".env")
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./configs/config.yaml or $HOME/.video-downloader/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show info logs on stderr")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// setup loads the configuration and builds the form controller with its
// collaborators
func setup(cmd *cobra.Command) (*app.FormController, *domain.Config, *zap.Logger, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	if outputDir, _ := cmd.Flags().GetString("output"); outputDir != "" {
		config.Download.OutputDir = outputDir
	}
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		if filepath.Base(name) != name {
			return nil, nil, nil, fmt.Errorf("file name must not contain directories: %q", name)
		}
		config.Download.FileName = name
	}

	logCfg := logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	}
	// Keep the terminal clean for the progress bar
	if !verbose && (logCfg.Level == "debug" || logCfg.Level == "info") {
		logCfg.Level = "warn"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	controller := app.NewFormController(
		infrastructure.NewBackendClient(&config.Backend, log),
		infrastructure.NewStreamDownloader(&config.Download, log),
		infrastructure.NewFileSaver(config.Download.OutputDir, log),
		infrastructure.NewNotificationService(&config.Notification, log),
		&config.Download,
		log,
	)
	return controller, config, log, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func submit(ctx context.Context, controller *app.FormController, cmd *cobra.Command, link string) error {
	platformFlag, _ := cmd.Flags().GetString("platform")
	platform, err := domain.ParsePlatform(platformFlag)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Processing %s link...\n", color.CyanString(string(platform)))
	if err := controller.Submit(ctx, link, platform); err != nil {
		return errors.New(controller.State().ErrorText)
	}
	return nil
}

var getCmd = &cobra.Command{
	Use:   "get [link]",
	Short: "Prepare a video and download it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, _, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer controller.Close()

		ctx, cancel := signalContext()
		defer cancel()

		if err := submit(ctx, controller, cmd, args[0]); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintln(os.Stderr, controller.State().StatusText)

		progress := newProgressRenderer()
		unsubscribe := controller.Subscribe(progress.render)
		err = controller.Download(ctx)
		unsubscribe()
		progress.finish()
		if err != nil {
			return errors.New(controller.State().ErrorText)
		}

		state := controller.State()
		fmt.Printf("Saved %s (%s)\n", color.GreenString(state.SavedPath), humanize.Bytes(uint64(state.BytesReceived)))
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit [link]",
	Short: "Prepare a video and print its download reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, _, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer controller.Close()

		ctx, cancel := signalContext()
		defer cancel()

		if err := submit(ctx, controller, cmd, args[0]); err != nil {
			return err
		}
		fmt.Println(controller.State().DownloadReference)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(os.Getenv("HOME"), ".video-downloader", "config.yaml")
		if len(args) == 1 {
			path = args[0]
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := app.SaveConfig(domain.DefaultConfig(), path); err != nil {
			return err
		}
		fmt.Printf("Configuration written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(config)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

// progressRenderer draws download progress on stderr. The bar is created
// on the first snapshot since the total is only known after the response
// headers arrive.
type progressRenderer struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newProgressRenderer() *progressRenderer {
	return &progressRenderer{}
}

func (p *progressRenderer) render(state domain.FormState) {
	if !state.IsDownloading {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		if state.BytesReceived == 0 && state.TotalBytes == 0 && !state.ProgressIndeterminate {
			return
		}
		total := state.TotalBytes
		if state.ProgressIndeterminate {
			total = -1
		}
		p.bar = progressbar.NewOptions64(
			total,
			progressbar.OptionSetDescription("Downloading"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}
	p.bar.Set64(state.BytesReceived)
}

func (p *progressRenderer) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
}

func init() {
	for _, cmd := range []*cobra.Command{getCmd, submitCmd} {
		cmd.Flags().StringP("platform", "p", string(domain.PlatformYouTube), "Platform (youtube, instagram)")
	}
	getCmd.Flags().StringP("output", "o", "", "Output directory (overrides download.output_dir)")
	getCmd.Flags().StringP("name", "n", "", "File name (overrides download.file_name)")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
