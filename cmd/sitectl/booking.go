package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wolfman30/sitefront/internal/validation"
)

func newValidateBookingCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate-booking",
		Short: "Validate an appointment request read as JSON",
		Long: `Validate an appointment request read as JSON from --file or stdin and
print the normalised request.

Example:
  echo '{"name":"Jane","email":"Jane@Example.com","date":"2026-03-12","time":"10:00"}' | sitectl validate-booking`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				fh, err := os.Open(file)
				if err != nil {
					return err
				}
				defer fh.Close()
				in = fh
			}
			return runValidateBooking(in, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file to read (default: stdin)")
	return cmd
}

func runValidateBooking(in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read booking: %w", err)
	}
	var data validation.BookingData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode booking: %w", err)
	}
	if err := validation.New().BookingRequest(&data, validation.PresenceOf(raw)); err != nil {
		errs, ok := validation.AsErrors(err)
		if !ok {
			return err
		}
		for _, fe := range errs {
			fmt.Fprintf(out, "%s: %s\n", fe.Field, fe.Message)
		}
		return errors.New("booking is invalid")
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
