package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/ecourts-cnr/internal/probe"
)

// newProbeCmd creates the 'probe' subcommand.
func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check whether the portal homepage needs a JavaScript browser",
		Long: `Fetches the portal homepage with a plain HTTP client and saves it. If the
page looks like a JavaScript shell or lacks CNR search text, it is fetched again
in headless Chrome. Both snapshots are stored next to the lookup results.`,
		RunE: runProbe,
	}
}

func runProbe(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	prober, cleanup, err := appInstance.Prober()
	if err != nil {
		return fmt.Errorf("init probe: %w", err)
	}
	defer cleanup()

	report := prober.Run(cmd.Context())
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(out io.Writer, report probe.Report) {
	fmt.Fprintf(out, "Probing %s\n", report.Target)
	for i, attempt := range report.Attempts {
		fmt.Fprintf(out, "\n%d) %s fetch: ", i+1, attempt.Strategy)
		if attempt.OK() {
			fmt.Fprintf(out, "OK, %d bytes in %s, saved to %s\n", attempt.Bytes, attempt.Duration, attempt.SnapshotURI)
			if attempt.SHA256 != "" {
				fmt.Fprintf(out, "   sha256 %s\n", attempt.SHA256)
			}
		} else {
			fmt.Fprintf(out, "failed: %v\n", attempt.Err)
		}
		for _, line := range probe.Advice(attempt, !report.BrowserSkipped) {
			fmt.Fprintf(out, ">>> %s\n", line)
		}
	}
	if report.BrowserSkipped {
		fmt.Fprintln(out, "\nBrowser fallback is disabled (browser.probe_enabled=false).")
	}
}
