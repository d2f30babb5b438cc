package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	appconfig "github.com/wolfman30/sitefront/internal/config"
	"github.com/wolfman30/sitefront/internal/notify"
	"github.com/wolfman30/sitefront/internal/notify/templates"
)

func newPreviewEmailCommand() *cobra.Command {
	var (
		contact   templates.Contact
		company   string
		color     string
		plainText bool
	)
	cmd := &cobra.Command{
		Use:       "preview-email <contact|auto-reply|newsletter>",
		Short:     "Render one of the site's emails to stdout",
		Long:      "Render one of the site's emails to stdout. Branding comes from the environment unless overridden.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"contact", "auto-reply", "newsletter"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load()
			if err != nil {
				return err
			}
			brand := templates.Branding{
				CompanyName:    cfg.CompanyName,
				CompanyLogo:    cfg.CompanyLogo,
				CompanyAddress: cfg.CompanyAddress,
				SupportEmail:   cfg.SupportEmail,
				PrimaryColor:   cfg.PrimaryColor,
			}
			if company != "" {
				brand.CompanyName = company
			}
			if color != "" {
				brand.PrimaryColor = color
			}
			renderer, err := templates.NewRenderer(brand)
			if err != nil {
				return err
			}

			var body string
			switch args[0] {
			case "contact":
				contact.SentAt = time.Now().UTC().Format(time.RFC1123)
				body, err = renderer.ContactNotification(contact)
			case "auto-reply":
				body, err = renderer.AutoReply(contact.Name)
			case "newsletter":
				body, err = renderer.NewsletterWelcome(contact.Name)
			}
			if err != nil {
				return err
			}
			if plainText {
				body = notify.PlainText(body)
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&contact.Name, "name", "Jane Doe", "submitter name")
	fl.StringVar(&contact.Email, "email", "jane@example.com", "submitter email")
	fl.StringVar(&contact.Phone, "phone", "", "submitter phone")
	fl.StringVar(&contact.Subject, "subject", "Question about your services", "contact subject")
	fl.StringVar(&contact.Message, "message", "Hello, I would like to know more.", "contact message")
	fl.StringVar(&contact.Date, "date", "", "preferred date")
	fl.StringVar(&contact.Time, "time", "", "preferred time")
	fl.StringVar(&company, "company", "", "override the company name")
	fl.StringVar(&color, "primary-color", "", "override the primary colour")
	fl.BoolVar(&plainText, "text", false, "print the plain-text part instead of HTML")
	return cmd
}
