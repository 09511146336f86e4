package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"scrambleorg/internal/config"
	"scrambleorg/internal/history"
	"scrambleorg/internal/logging"
	"scrambleorg/internal/pipeline"
	"scrambleorg/internal/textutil"
	"scrambleorg/internal/wcif"
)

type organizeSummary struct {
	RunID       string           `json:"runId" yaml:"run_id"`
	Competition string           `json:"competition" yaml:"competition"`
	WorkDir     string           `json:"workDir" yaml:"work_dir"`
	Archive     string           `json:"archive,omitempty" yaml:"archive,omitempty"`
	Rounds      int              `json:"rounds" yaml:"rounds"`
	Moved       int              `json:"moved" yaml:"moved"`
	Missing     int              `json:"missing" yaml:"missing"`
	Passcodes   int              `json:"passcodes" yaml:"passcodes"`
	Manifest    string           `json:"manifest" yaml:"manifest"`
	Warnings    []warningSummary `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type warningSummary struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var (
		wcifPath      string
		competitionID string
		bundlePath    string
		dir           string
		workDir       string
		outputPath    string
		format        string
	)

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Sort scramble files into venue and room folders",
		Long: `Organize unpacks a scramble bundle (or uses an already extracted directory),
moves every scramble PDF into <venue>/<room> folders according to the
competition schedule, and rewrites the passcode manifest grouped by day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			outFormat, err := resolveFormat(cmd, format)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			comp, err := ctx.loadCompetition(cmd.Context(), wcifPath, competitionID)
			if err != nil {
				return err
			}

			req := pipeline.Request{Competition: comp, Source: history.SourceCLI}
			if bundlePath != "" {
				if req.BundlePath, err = config.ExpandPath(bundlePath); err != nil {
					return fmt.Errorf("resolve bundle path: %w", err)
				}
				req.WorkDir = strings.TrimSpace(workDir)
				if req.WorkDir == "" {
					req.WorkDir = defaultWorkDir(cfg, comp)
				}
			} else {
				req.WorkDir = dir
			}
			if req.WorkDir, err = config.ExpandPath(req.WorkDir); err != nil {
				return fmt.Errorf("resolve working directory: %w", err)
			}
			if outputPath != "" {
				if req.ArchivePath, err = config.ExpandPath(outputPath); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}

			store, err := ctx.openHistory()
			if err != nil {
				logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "this run will not be recorded"),
				)
				store = nil
			}
			if store != nil {
				defer store.Close()
			}

			processor, err := pipeline.NewProcessor(cfg, store, logger)
			if err != nil {
				return err
			}
			outcome, err := processor.Process(cmd.Context(), req)
			if err != nil {
				return err
			}

			summary := summarizeOutcome(comp, outcome)
			switch outFormat {
			case formatJSON:
				return writeJSON(cmd, summary)
			case formatYAML:
				return writeYAML(cmd, summary)
			}
			printOrganizeSummary(cmd, outFormat, summary)
			return nil
		},
	}

	addCompetitionFlags(cmd, &wcifPath, &competitionID)
	cmd.Flags().StringVarP(&bundlePath, "bundle", "b", "", "Scramble bundle zip to unpack and organize")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory of extracted scramble files to organize in place")
	cmd.Flags().StringVarP(&workDir, "workdir", "w", "", "Working directory for --bundle (default <staging_dir>/<competition>)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the organized result to this zip file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, plain, json, or yaml")
	cmd.MarkFlagsMutuallyExclusive("bundle", "dir")
	cmd.MarkFlagsMutuallyExclusive("workdir", "dir")
	cmd.MarkFlagsOneRequired("bundle", "dir")
	return cmd
}

func defaultWorkDir(cfg *config.Config, comp *wcif.Competition) string {
	name := strings.TrimSpace(comp.ID)
	if name == "" {
		name = comp.Name
	}
	return filepath.Join(cfg.Paths.StagingDir, textutil.SanitizePathSegment(name, "competition"))
}

func summarizeOutcome(comp *wcif.Competition, outcome pipeline.Outcome) organizeSummary {
	result := outcome.Result
	summary := organizeSummary{
		RunID:       outcome.RunID,
		Competition: comp.Name,
		WorkDir:     outcome.WorkDir,
		Archive:     outcome.ArchivePath,
		Rounds:      len(result.Occurrences),
		Moved:       len(result.Relocation.Moved),
		Missing:     len(result.Relocation.Missing),
		Passcodes:   result.Passcodes.Entries,
		Manifest:    result.Passcodes.OutputPath,
	}
	for _, w := range result.Warnings {
		summary.Warnings = append(summary.Warnings, warningSummary{Kind: string(w.Kind), Message: w.Message})
	}
	return summary
}

func printOrganizeSummary(cmd *cobra.Command, format string, s organizeSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Organized %s (run %s)\n", s.Competition, s.RunID)
	fmt.Fprintf(out, "  Working directory: %s\n", s.WorkDir)
	fmt.Fprintf(out, "  Rounds: %d  Moved: %d  Missing: %d\n", s.Rounds, s.Moved, s.Missing)
	fmt.Fprintf(out, "  Passcodes: %d -> %s\n", s.Passcodes, filepath.Base(s.Manifest))
	if s.Archive != "" {
		fmt.Fprintf(out, "  Archive: %s\n", s.Archive)
	}
	if len(s.Warnings) == 0 {
		return
	}
	rows := make([][]string, 0, len(s.Warnings))
	for i, w := range s.Warnings {
		rows = append(rows, []string{strconv.Itoa(i + 1), w.Kind, w.Message})
	}
	fmt.Fprintln(out, renderRows(format, "Warnings",
		[]string{"#", "Kind", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
}
