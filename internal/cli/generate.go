package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/danish/blueprint/internal/config"
	"github.com/danish/blueprint/pkg/archive"
	"github.com/danish/blueprint/pkg/blueprint"
	"github.com/danish/blueprint/pkg/llm"
	"github.com/danish/blueprint/pkg/prompt"
	"github.com/danish/blueprint/pkg/registry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var generateOutputDir string

var generateCmd = &cobra.Command{
	Use:   "generate <idea>",
	Short: "Generate a blueprint for an idea and write the zip bundle",
	Long: `Generate the full document set for a single idea without running
the service, then write the resulting zip bundle to the output
directory. Progress is printed as documents complete.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutputDir, "output", "o", ".", "directory for the zip bundle")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	idea := args[0]

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	profile, err := bestProfile(cfg.AI.Profiles)
	if err != nil {
		return err
	}
	provider, err := llm.NewProvider(profile)
	if err != nil {
		return err
	}

	prompts, err := prompt.NewLibrary(prompt.WithOverrideDir(cfg.Generation.PromptDir))
	if err != nil {
		return err
	}

	reg := registry.New(
		registry.WithRetention(time.Duration(cfg.Generation.RetentionMinutes) * time.Minute),
	)

	model := profile.Model
	if model == "" {
		model = cfg.Generation.Model
	}
	driver := blueprint.NewDriver(reg, provider, prompts, blueprint.Config{
		Model:       model,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
		SlotTimeout: time.Duration(cfg.Generation.SlotTimeoutSeconds) * time.Second,
	}, zerolog.Nop())

	id := driver.NewSession(idea)
	fmt.Fprintf(cmd.OutOrStdout(), "Generating blueprint for: %s\n", idea)

	if err := driver.Run(cmd.Context(), id, idea); err != nil {
		printLogs(cmd, reg, id)
		return fmt.Errorf("generation failed: %w", err)
	}
	printLogs(cmd, reg, id)

	snap, ok := reg.Get(id)
	if !ok {
		return fmt.Errorf("session expired before the bundle could be written")
	}

	if err := os.MkdirAll(generateOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	builder := archive.NewBuilder()
	path := filepath.Join(generateOutputDir, builder.Filename(idea))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}
	defer f.Close()

	if err := builder.Write(f, snap, blueprint.SlotFilenames()); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Blueprint written to %s\n", path)
	return nil
}

// bestProfile picks the profile with the lowest priority value
func bestProfile(profiles []config.AIProfile) (llm.Profile, error) {
	if len(profiles) == 0 {
		return llm.Profile{}, fmt.Errorf("no AI profiles configured")
	}

	sorted := make([]config.AIProfile, len(profiles))
	copy(sorted, profiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	p := sorted[0]
	return llm.Profile{
		ID:       p.ID,
		Provider: p.Provider,
		APIKey:   p.APIKey,
		Model:    p.Model,
		Priority: p.Priority,
	}, nil
}

// printLogs echoes the session log to the command output
func printLogs(cmd *cobra.Command, reg *registry.Registry, id string) {
	snap, ok := reg.Get(id)
	if !ok {
		return
	}
	for _, entry := range snap.Logs {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", entry.Level, entry.Message)
	}
}
