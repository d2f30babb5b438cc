package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wolfman30/sitefront/internal/contactform"
	"github.com/wolfman30/sitefront/internal/validation"
	"github.com/wolfman30/sitefront/pkg/logging"
)

func newSubmitContactCommand() *cobra.Command {
	var (
		baseURL string
		data    validation.ContactFormData
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "submit-contact",
		Short: "Submit the contact form against a running API",
		Long: `Submit the contact form against a running API.

Example:
  sitectl submit-contact --base-url http://localhost:8080 --name "Jane Doe" \
    --email jane@example.com --subject "Pricing question" --message "Please send me your price list."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := contactform.DefaultConfig()
			cfg.ShowPhone = data.Phone != ""
			cfg.ShowDate = data.Date != ""
			cfg.ShowTime = data.Time != ""

			form := contactform.New(cfg, validation.New(), contactform.NewHTTPSubmitter(baseURL),
				contactform.WithLogger(logging.NewWithWriter(cmd.ErrOrStderr(), "error")))
			defer form.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := cmd.OutOrStdout()
			resp, err := form.Submit(ctx, data)
			if errs, ok := validation.AsErrors(err); ok {
				for _, fe := range errs {
					fmt.Fprintf(out, "%s: %s\n", fe.Field, fe.Message)
				}
				return errors.New("contact form is invalid")
			}
			if err != nil {
				var rejected *contactform.RejectedError
				if errors.As(err, &rejected) {
					for _, fe := range rejected.Details {
						fmt.Fprintf(out, "%s: %s\n", fe.Field, fe.Message)
					}
				}
				fmt.Fprintln(out, form.Banner())
				return err
			}
			fmt.Fprintln(out, form.Banner())
			if resp.ID != "" {
				fmt.Fprintf(out, "id: %s\n", resp.ID)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&baseURL, "base-url", "http://localhost:8080", "API base URL")
	fl.StringVar(&data.Name, "name", "", "your name")
	fl.StringVar(&data.Email, "email", "", "your email")
	fl.StringVar(&data.Phone, "phone", "", "phone number")
	fl.StringVar(&data.Subject, "subject", "", "subject")
	fl.StringVar(&data.Message, "message", "", "message")
	fl.StringVar(&data.Date, "date", "", "preferred date as YYYY-MM-DD")
	fl.StringVar(&data.Time, "time", "", "preferred time as HH:MM")
	fl.DurationVar(&timeout, "timeout", 20*time.Second, "request timeout")
	return cmd
}
