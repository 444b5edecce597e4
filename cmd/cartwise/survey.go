package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PUSHPAK-96/cartwise/internal/cli"
	"github.com/PUSHPAK-96/cartwise/internal/export"
	"github.com/PUSHPAK-96/cartwise/internal/survey"
)

func surveyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "survey <file>",
		Short: "Score the sentiment of survey responses",
		Long: `Label each free_text response positive, neutral or negative and summarize
the result: sentiment share, score distribution, per-segment means and the
top TF-IDF keywords.

Optional rating and segment columns enable the rating and segment filters.`,
		Args: cobra.ExactArgs(1),
		RunE: runSurvey,
	}

	cmd.Flags().StringSlice("segment", nil, "Only include these segments")
	cmd.Flags().Float64("min-rating", 0, "Only include responses rated at least this (unrated count as -1)")
	cmd.Flags().Float64("score-min", -1, "Minimum sentiment score")
	cmd.Flags().Float64("score-max", 1, "Maximum sentiment score")
	cmd.Flags().String("search", "", "Only include responses containing this text")
	cmd.Flags().Bool("negatives", false, "Only include negative responses")
	cmd.Flags().Int("keywords", survey.DefaultKeywords, "Number of keywords to extract")
	cmd.Flags().Bool("rows", false, "List the matching responses")
	cmd.Flags().Int("page", 0, "Page of responses to list (zero-based)")
	cmd.Flags().Int("page-size", survey.DefaultPageSize, "Responses per page")
	cmd.Flags().StringP("output", "o", "", "Write the enriched responses to a .csv file")

	return cmd
}

func floatFlag(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

func runSurvey(cmd *cobra.Command, args []string) error {
	segments, _ := cmd.Flags().GetStringSlice("segment")
	search, _ := cmd.Flags().GetString("search")
	negatives, _ := cmd.Flags().GetBool("negatives")
	topK, _ := cmd.Flags().GetInt("keywords")
	showRows, _ := cmd.Flags().GetBool("rows")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	output, _ := cmd.Flags().GetString("output")

	responses, err := survey.LoadResponsesFile(args[0])
	if err != nil {
		return err
	}

	enriched := survey.Enrich(responses)
	filtered := survey.Filter(enriched, survey.FilterOptions{
		MinRating: floatFlag(cmd, "min-rating"),
		ScoreMin:  floatFlag(cmd, "score-min"),
		ScoreMax:  floatFlag(cmd, "score-max"),
		Search:    search,
		Segments:  segments,
	})
	if negatives {
		filtered = survey.Negatives(filtered)
	}

	out := cmd.OutOrStdout()
	keywords := survey.TopKeywords(survey.Texts(filtered), topK)
	if err := cli.RenderSurvey(out, filtered, keywords); err != nil {
		return err
	}

	if showRows {
		rows, total, err := survey.Paginate(filtered, pageSize, page)
		if err != nil {
			return err
		}
		if err := cli.RenderResponses(out, rows, total); err != nil {
			return err
		}
	}

	if output != "" {
		f, err := os.Create(output) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := export.WriteSurveyCSV(f, filtered); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved %d responses to %s", len(filtered), output)))
	}
	return nil
}
