package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wolfman30/sitefront/internal/calendly"
	appconfig "github.com/wolfman30/sitefront/internal/config"
	"github.com/wolfman30/sitefront/internal/phone"
	"github.com/wolfman30/sitefront/internal/whatsapp"
)

func newCalendlyURLCommand() *cobra.Command {
	var (
		base    string
		cfg     calendly.Config
		prefill calendly.Prefill
		utm     calendly.UTM
		answers map[string]string
	)
	cmd := &cobra.Command{
		Use:   "calendly-url",
		Short: "Build a prefilled Calendly scheduling link",
		Long: `Build a prefilled Calendly scheduling link.

The base URL defaults to CALENDLY_URL.

Example:
  sitectl calendly-url --url https://calendly.com/acme/intro --name "Jane Doe" --primary-color "#084fc3"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if base == "" {
				loaded, err := appconfig.Load()
				if err != nil {
					return err
				}
				base = loaded.CalendlyURL
			}
			prefill.CustomAnswers = answers
			if prefill.Name != "" || prefill.Email != "" || prefill.FirstName != "" || prefill.LastName != "" || len(answers) > 0 {
				cfg.Prefill = &prefill
			}
			if utm != (calendly.UTM{}) {
				cfg.UTM = &utm
			}
			url, err := calendly.NewService(calendly.Options{URL: base}).SchedulingURL(&cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&base, "url", "", "scheduling page URL")
	fl.StringVar(&prefill.Name, "name", "", "invitee name")
	fl.StringVar(&prefill.Email, "email", "", "invitee email")
	fl.StringVar(&prefill.FirstName, "first-name", "", "invitee first name")
	fl.StringVar(&prefill.LastName, "last-name", "", "invitee last name")
	fl.StringToStringVar(&answers, "answer", nil, "custom answer by question index, e.g. 1=Botox")
	fl.StringVar(&utm.Source, "utm-source", "", "utm_source")
	fl.StringVar(&utm.Medium, "utm-medium", "", "utm_medium")
	fl.StringVar(&utm.Campaign, "utm-campaign", "", "utm_campaign")
	fl.StringVar(&utm.Content, "utm-content", "", "utm_content")
	fl.StringVar(&utm.Term, "utm-term", "", "utm_term")
	fl.BoolVar(&cfg.HideEventTypeDetails, "hide-event-type-details", false, "hide the event type details")
	fl.BoolVar(&cfg.HideLandingPageDetails, "hide-landing-page-details", false, "hide the landing page details")
	fl.StringVar(&cfg.BackgroundColor, "background-color", "", "widget background colour")
	fl.StringVar(&cfg.TextColor, "text-color", "", "widget text colour")
	fl.StringVar(&cfg.PrimaryColor, "primary-color", "", "widget primary colour")
	return cmd
}

func newWhatsAppLinkCommand() *cobra.Command {
	var (
		message string
		region  string
	)
	cmd := &cobra.Command{
		Use:   "whatsapp-link <phone>",
		Short: "Build a wa.me chat link with a prefilled message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number := args[0]
			if region != "" {
				normalised, ok := phone.E164(number, region)
				if !ok {
					return fmt.Errorf("%q is not a valid phone number for region %s", number, strings.ToUpper(region))
				}
				number = normalised
			}
			if message == "" {
				message = whatsapp.DefaultMessage
			}
			fmt.Fprintln(cmd.OutOrStdout(), whatsapp.Link(number, message))
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "prefilled chat message")
	cmd.Flags().StringVar(&region, "region", "", "normalise the number in this ISO region first, e.g. US")
	return cmd
}
