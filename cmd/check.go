package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/ecourts-cnr/internal/prompt"
	"github.com/JakeFAU/ecourts-cnr/internal/results"
)

const cnrPrompt = "Enter CNR number (e.g., MHAU019999992015): "

// newCheckCmd creates the 'check' subcommand.
func newCheckCmd() *cobra.Command {
	var (
		cnr       string
		todayOnly bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Look up a case by CNR and check today's and tomorrow's listings",
		Long: `Opens a Chrome window on the eCourts portal and enters the CNR. Solve the
CAPTCHA, click Search, then press ENTER in this terminal. The case details are
printed and saved as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, cnr, todayOnly)
		},
	}
	cmd.Flags().StringVar(&cnr, "cnr", "", "CNR number to look up (prompted for when omitted)")
	cmd.Flags().BoolVar(&todayOnly, "today", false, "only save the result when the case is listed today")
	return cmd
}

func runCheck(cmd *cobra.Command, cnr string, todayOnly bool) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	terminal := prompt.NewTerminal(cmd.InOrStdin(), out)

	if strings.TrimSpace(cnr) == "" {
		cnr, err = terminal.Ask(cnrPrompt)
		if err != nil {
			return fmt.Errorf("read CNR: %w", err)
		}
	}

	checker, err := appInstance.Checker(terminal, todayOnly)
	if err != nil {
		return fmt.Errorf("init lookup: %w", err)
	}

	fmt.Fprintf(out, "Searching for CNR: %s ...\n", strings.TrimSpace(cnr))
	outcome, err := checker.Run(cmd.Context(), cnr)
	if err != nil {
		return err
	}
	if outcome.Skipped {
		fmt.Fprintf(out, "Case %s is not listed today.\n", outcome.Envelope.CNR)
		return nil
	}

	payload, err := results.Marshal(outcome.Envelope)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nDone!\n%s\nResults saved to: %s\n", payload, outcome.Path)
	return nil
}
