package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/OW-Research/llmsgen/internal/app"
	"github.com/OW-Research/llmsgen/internal/config"
	"github.com/OW-Research/llmsgen/internal/manifest"
	"github.com/OW-Research/llmsgen/pkg/version"
)

var (
	cfgFile      string
	manifestPath string
	verbose      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "llmsgen [repo-url]",
	Short: "Generate llms.txt files for GitHub repositories",
	Long: `llmsgen analyzes a GitHub repository's file tree, README and package
files, normalizes any accompanying documentation pages to Markdown, and
uses an LLM to generate an llms.txt digest following the llms.txt standard.`,
	Version: version.Short(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.llmsgen/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Manifest file with multiple sources")
	rootCmd.Flags().StringP("output", "o", "llms.txt", "Output file path")
	rootCmd.Flags().String("pages-dir", "", "Directory for normalized page Markdown (optional)")
	rootCmd.Flags().StringSlice("docs-url", nil, "Documentation page URLs to include")
	rootCmd.Flags().Bool("force", false, "Overwrite existing output file")
	rootCmd.Flags().Bool("dry-run", false, "Simulate without writing files")

	rootCmd.Flags().String("token", "", "GitHub API token")
	rootCmd.Flags().StringSlice("branch", nil, "Branch candidates to probe (default main,master)")
	rootCmd.Flags().Duration("timeout", 30*time.Second, "Request timeout")
	rootCmd.Flags().Duration("delay", time.Second, "Minimum delay between documentation fetches")
	rootCmd.Flags().Int("retries", 3, "Max retries for documentation fetches")

	rootCmd.Flags().String("provider", "", "LLM provider (openai, anthropic)")
	rootCmd.Flags().String("model", "", "LLM model name")
	rootCmd.Flags().String("api-key", "", "LLM API key")

	rootCmd.Flags().Bool("no-cache", false, "Disable page caching")
	rootCmd.Flags().Duration("cache-ttl", 24*time.Hour, "Cache TTL")

	_ = viper.BindPFlag("output.path", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output.pages_dir", rootCmd.Flags().Lookup("pages-dir"))
	_ = viper.BindPFlag("output.overwrite", rootCmd.Flags().Lookup("force"))
	_ = viper.BindPFlag("output.dry_run", rootCmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("docs.urls", rootCmd.Flags().Lookup("docs-url"))
	_ = viper.BindPFlag("docs.delay", rootCmd.Flags().Lookup("delay"))
	_ = viper.BindPFlag("docs.timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("docs.max_retries", rootCmd.Flags().Lookup("retries"))
	_ = viper.BindPFlag("github.token", rootCmd.Flags().Lookup("token"))
	_ = viper.BindPFlag("github.branches", rootCmd.Flags().Lookup("branch"))
	_ = viper.BindPFlag("github.timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("llm.provider", rootCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", rootCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("llm.api_key", rootCmd.Flags().Lookup("api-key"))
	_ = viper.BindPFlag("cache.ttl", rootCmd.Flags().Lookup("cache-ttl"))

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	if len(args) == 0 && manifestPath == "" {
		return cmd.Help()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "shutting down...")
		cancel()
	}()

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config:   cfg,
		Progress: true,
		Verbose:  verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	if manifestPath != "" {
		manifestCfg, err := manifest.NewLoader().Load(manifestPath)
		if err != nil {
			return fmt.Errorf("failed to load manifest: %w", err)
		}
		return orchestrator.RunManifest(ctx, manifestCfg)
	}

	return orchestrator.Run(ctx, args[0])
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
