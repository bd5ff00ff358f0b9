package main

import (
	"encoding/json"
	"fmt"

	"github.com/nzws/flux-downloader/internal/fetcher"
	"github.com/nzws/flux-downloader/internal/shared/config"
	"github.com/nzws/flux-downloader/internal/shared/logger"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <url>",
		Short: "Print metadata for a URL as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.Init(logger.Options{Development: cfg.IsDevelopment(), Level: cfg.Log.Level}); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			ytdlp := fetcher.NewYtDlp(fetcher.Options{
				Executable:    cfg.Download.YtdlpPath,
				SocketTimeout: cfg.Download.SocketTimeout,
				Retries:       cfg.Download.Retries,
			}, fetcher.NewYouTubePlaylistLister(cfg.Download.SocketTimeout))
			if err := ytdlp.Check(); err != nil {
				return err
			}

			info, err := ytdlp.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(info)
		},
	}
}
