package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/semak-karangan-api/internal/dto"
	"github.com/noah-isme/semak-karangan-api/internal/scoring"
	"github.com/noah-isme/semak-karangan-api/internal/service"
)

type analyseOptions struct {
	name               string
	set                string
	pictureDescription string
	pictureURL         string
	policy             string
	asJSON             bool
	timeout            time.Duration
}

func newAnalyseCommand(app *App) *cobra.Command {
	opts := analyseOptions{}

	cmd := &cobra.Command{
		Use:   "analyse <file|->",
		Short: "Mark one essay and print the breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			essay, err := readEssay(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			policy := app.Config.ScoringPolicy
			if opts.policy != "" {
				policy, err = scoring.PolicyByName(opts.policy)
				if err != nil {
					return err
				}
			}

			oracle, err := app.oracle()
			if err != nil {
				return err
			}

			timeout := opts.timeout
			if timeout <= 0 {
				timeout = app.Config.AITimeout
			}

			analysis := service.NewAnalysisService(oracle, policy, timeout, app.Logger)
			result, err := analysis.Analyze(cmd.Context(), dto.SubmissionInput{
				Name:               strings.TrimSpace(opts.name),
				Set:                strings.TrimSpace(opts.set),
				Essay:              essay,
				PictureDescription: opts.pictureDescription,
				PictureURL:         opts.pictureURL,
			})
			if err != nil {
				return err
			}

			if opts.asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(result)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), renderAnalysis(result))
			return err
		},
	}

	cmd.Flags().StringVar(&opts.name, "nama", "", "student name")
	cmd.Flags().StringVar(&opts.set, "set", "", "assignment set")
	cmd.Flags().StringVar(&opts.pictureDescription, "picture-description", "", "description of the stimulus picture")
	cmd.Flags().StringVar(&opts.pictureURL, "picture-url", "", "URL of the stimulus picture, captioned when no description is given")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "scoring policy preset (library or inline)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the analysis as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-call AI timeout")

	return cmd
}

func readEssay(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read essay: %w", err)
	}
	return string(data), nil
}
