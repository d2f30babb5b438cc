// Command sitectl is the operator CLI for the marketing site backend: it
// previews emails, builds scheduling and chat links, renders the date picker
// and submits contact requests against a running API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sitectl",
		Short:         "Tooling for the sitefront marketing site backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newCalendarCommand())
	cmd.AddCommand(newCalendlyURLCommand())
	cmd.AddCommand(newWhatsAppLinkCommand())
	cmd.AddCommand(newPreviewEmailCommand())
	cmd.AddCommand(newSubmitContactCommand())
	cmd.AddCommand(newValidateBookingCommand())

	return cmd
}
