package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputDir    string
	layoutName   string
	imagesDir    string
	imagePrefix  string
	cdnHost      string
	overwrite    bool
	settingsPath string
	debugMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "blog2md [export-file]",
	Short: "Convert a blog export into portable markdown documents",
	Long: `blog2md converts a JSON export of blog posts into standalone markdown
documents: one file per post with YAML frontmatter, remote CDN images
downloaded to disk and rewritten to local references. Re-running over the
same export is safe: converted posts are skipped and downloaded assets are
never fetched twice.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		exportFile := "export.json"
		if len(args) > 0 {
			exportFile = args[0]
		}

		var settings *Settings
		var err error
		if settingsPath != "" {
			settings, err = loadSettingsRequired(settingsPath)
		} else {
			if err := ensureConfigExists(); err != nil {
				return err
			}
			settings, err = loadSettings()
		}
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, settings)

		log := NewLogger(debugMode)

		downloader := NewAssetDownloader(settings.DownloaderOptions())
		localizer := NewAssetLocalizer(downloader, settings.CDNHost)

		converter, err := NewConverter(ConverterOptions{
			OutputDir:    settings.OutputDirectory,
			Layout:       LayoutKind(settings.Layout),
			ImagesDir:    settings.ImagesDirectory,
			ImagePrefix:  settings.ImagePathPrefix,
			SkipExisting: settings.SkipExisting,
		}, localizer)
		if err != nil {
			return err
		}
		converter.AddListener(newLogListener(log))

		result, err := converter.Run(exportFile)
		if err != nil {
			return err
		}

		log.Summary(result)
		if result.Failed > 0 {
			os.Exit(1)
		}
		return nil
	},
}

// applyFlagOverrides lets explicitly-set flags win over the settings file.
func applyFlagOverrides(cmd *cobra.Command, settings *Settings) {
	if cmd.Flags().Changed("out") {
		settings.OutputDirectory = outputDir
	}
	if cmd.Flags().Changed("layout") {
		settings.Layout = layoutName
	}
	if cmd.Flags().Changed("images-dir") {
		settings.ImagesDirectory = imagesDir
	}
	if cmd.Flags().Changed("image-prefix") {
		settings.ImagePathPrefix = imagePrefix
	}
	if cmd.Flags().Changed("cdn-host") {
		settings.CDNHost = cdnHost
	}
	if cmd.Flags().Changed("overwrite") {
		settings.SkipExisting = !overwrite
	}
}

func init() {
	rootCmd.Flags().StringVar(&outputDir, "out", "posts", "Output directory")
	rootCmd.Flags().StringVar(&layoutName, "layout", "nested", "Output layout: nested or flat")
	rootCmd.Flags().StringVar(&imagesDir, "images-dir", "_images", "Shared image directory (flat layout)")
	rootCmd.Flags().StringVar(&imagePrefix, "image-prefix", "/images", "Rewritten image path prefix (flat layout)")
	rootCmd.Flags().StringVar(&cdnHost, "cdn-host", "substackcdn.com", "CDN host whose images get localized")
	rootCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-convert posts that already exist")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "Path to a settings file")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
