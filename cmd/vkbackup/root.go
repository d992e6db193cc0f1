package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"vkbackup/internal/wizard"
	"vkbackup/pkg/auth"
	"vkbackup/pkg/backup"
	"vkbackup/pkg/config"
	"vkbackup/pkg/logger"
	"vkbackup/pkg/objectstore"
	"vkbackup/pkg/storage"
	"vkbackup/pkg/ui"
	"vkbackup/pkg/vk"
	"vkbackup/pkg/yadisk"
)

// errConfig marks startup failures caused by the configuration
var errConfig = errors.New("configuration error")

// rootCmd is the only command; the tool is driven by interactive prompts
var rootCmd = &cobra.Command{
	Use:   "vkbackup",
	Short: "Back up VK photos to local disk, Yandex.Disk or S3",
	Long: `vkbackup copies the photos of a VK user (a friend, yourself or any
user id) to a local directory, to Yandex.Disk or to an S3-compatible bucket.

It asks what to back up through numbered menus. For every processed user a
photos_info_<id>.json manifest lists the saved files.

Tokens are read from config.yaml (vk_token, ya_token), from the
VKBACKUP_VK_TOKEN and VKBACKUP_YA_TOKEN environment variables, or from the
system keychain.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Execute runs the root command and exits with status 1 on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		term := ui.NewTerminal(os.Stderr)
		term.Error("Error", err)
		if errors.Is(err, errConfig) {
			fmt.Fprintln(os.Stderr)
			auth.ShowTokenGuide(os.Stderr)
		}
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	term := ui.NewTerminal(out)
	term.PrintBanner()

	// The keychain is only opened for tokens missing from file and env,
	// or when the user asks to store tokens
	store := auth.NewLazyManager()

	cfg, err := config.Load("", store)
	if err != nil {
		logConfigError(err)
		return fmt.Errorf("%w: %w", errConfig, err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	log := logger.GetLogger()
	log.InfoWithFields("vkbackup starting", map[string]interface{}{
		"vk_token":     config.MaskToken(cfg.VKToken),
		"ya_token":     config.MaskToken(cfg.YandexToken),
		"s3_enabled":   cfg.S3.Enabled(),
		"manifest_dir": cfg.Manifest.Directory,
	})

	vkClient := vk.NewClient(cfg.VK, cfg.VKToken, log)
	pipeline := newPipeline(cfg, vkClient, term, log)

	wiz := wizard.New(vkClient, pipeline, term, in, log)
	wiz.SetTokenSaver(store, map[string]string{
		config.TokenVK:     cfg.VKToken,
		config.TokenYandex: cfg.YandexToken,
	})

	if err := wiz.Run(); err != nil {
		log.WithError(err).Error("vkbackup stopped")
		return err
	}
	return nil
}

// logConfigError records a failed startup in the log file. The logging
// section is read on its own since the full configuration did not load.
func logConfigError(cause error) {
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(""); err != nil {
		cfg = config.DefaultConfig()
	}
	_ = cfg.LoadFromEnv()

	logging := cfg.Logging
	logging.Console = false
	if logging.File == "" {
		return
	}

	l, err := logger.New(&logging)
	if err != nil {
		logging.Level = config.DefaultConfig().Logging.Level
		if l, err = logger.New(&logging); err != nil {
			return
		}
	}
	defer logger.Close()

	l.WithError(cause).Error("Failed to load configuration")
}

// newPipeline wires the destinations enabled by cfg
func newPipeline(cfg *config.Config, source backup.PhotoSource, term *ui.Terminal, log logger.Logger) *backup.Pipeline {
	fetcher := storage.NewFetcher(&http.Client{}, log)

	pipeline := backup.NewPipeline(source, backup.Options{
		ManifestDir: cfg.Manifest.Directory,
		TopCount:    cfg.VK.TopCount,
		Location:    cfg.Location(),
		Progress: func(label string, total int) backup.Progress {
			return term.NewProgress(label, total)
		},
	}, log)

	pipeline.AddDestination(backup.NewLocalDestination(cfg.Local.BaseDirectory, fetcher, log))
	pipeline.AddDestination(backup.NewYandexDestination(
		yadisk.NewClient(cfg.Yandex, cfg.YandexToken, log),
		cfg.Yandex.BaseFolder,
	))

	if cfg.S3.Enabled() {
		objects, err := objectstore.New(cfg.S3, fetcher, log)
		if err != nil {
			log.WithError(err).Warn("S3 destination disabled")
			term.Warning("S3 destination disabled: " + err.Error())
		} else {
			pipeline.AddDestination(backup.NewS3Destination(objects, cfg.Yandex.BaseFolder))
		}
	}

	return pipeline
}
