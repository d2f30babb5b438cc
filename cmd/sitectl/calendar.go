package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wolfman30/sitefront/internal/datepicker"
)

type calendarFlags struct {
	month           string
	today           string
	allowPast       bool
	disableSundays  bool
	disableWeekends bool
	minDate         string
	maxDate         string
	selectDay       int
}

func newCalendarCommand() *cobra.Command {
	var f calendarFlags
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Render the date picker grid for a month",
		Long: `Render the date picker grid for a month.

Markers: * today, ^ selected, - disabled.

Example:
  sitectl calendar --month 2026-03 --disable-sundays --select 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalendar(cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVar(&f.month, "month", "", "month to show as YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&f.today, "today", "", "override today as YYYY-MM-DD")
	cmd.Flags().BoolVar(&f.allowPast, "allow-past", false, "allow selecting past dates")
	cmd.Flags().BoolVar(&f.disableSundays, "disable-sundays", false, "disable Sundays")
	cmd.Flags().BoolVar(&f.disableWeekends, "disable-weekends", false, "disable Saturdays and Sundays")
	cmd.Flags().StringVar(&f.minDate, "min", "", "earliest selectable date as YYYY-MM-DD")
	cmd.Flags().StringVar(&f.maxDate, "max", "", "latest selectable date as YYYY-MM-DD")
	cmd.Flags().IntVar(&f.selectDay, "select", 0, "select this day of the shown month")
	return cmd
}

func runCalendar(out io.Writer, f calendarFlags) error {
	opts := datepicker.Options{
		DisablePast:     !f.allowPast,
		DisableSundays:  f.disableSundays,
		DisableWeekends: f.disableWeekends,
	}
	var err error
	if opts.MinDate, err = optionalDate(f.minDate); err != nil {
		return err
	}
	if opts.MaxDate, err = optionalDate(f.maxDate); err != nil {
		return err
	}

	var clock datepicker.Clock = datepicker.SystemClock{}
	if f.today != "" {
		t, err := time.ParseInLocation(datepicker.ISOLayout, f.today, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
		clock = datepicker.FixedClock{At: t}
	}

	cal := datepicker.New(opts, clock, nil)
	if f.month != "" {
		target, err := time.ParseInLocation("2006-01", f.month, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --month: %w", err)
		}
		if err := seekMonth(cal, target); err != nil {
			return err
		}
	}

	var selected string
	if f.selectDay != 0 {
		if selected, err = cal.Select(f.selectDay); err != nil {
			return fmt.Errorf("select day %d: %w", f.selectDay, err)
		}
	}

	printCalendar(out, cal)
	if selected != "" {
		fmt.Fprintf(out, "selected: %s (%s)\n", selected, cal.Display())
	}
	return nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(datepicker.ISOLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}

// seekMonth pages the calendar until it shows target's month.
func seekMonth(cal *datepicker.Calendar, target time.Time) error {
	for {
		month, year := cal.Month()
		cur := year*12 + int(month)
		want := target.Year()*12 + int(target.Month())
		var moved bool
		switch {
		case cur == want:
			return nil
		case cur < want:
			moved = cal.Next()
		default:
			moved = cal.Previous()
		}
		if !moved {
			return errors.New("month is outside the selectable range")
		}
	}
}

func printCalendar(out io.Writer, cal *datepicker.Calendar) {
	fmt.Fprintln(out, cal.Title())
	fmt.Fprintln(out, strings.Join(datepicker.DayNames[:], " "))

	cells := cal.Cells()
	for i, cell := range cells {
		fmt.Fprint(out, formatCell(cell))
		if i%7 == 6 || i == len(cells)-1 {
			fmt.Fprintln(out)
		} else {
			fmt.Fprint(out, " ")
		}
	}
	if help := cal.HelperText(); help != "" {
		fmt.Fprintln(out, help)
	}
}

func formatCell(c datepicker.Cell) string {
	if c.Placeholder {
		return "   "
	}
	mark := " "
	switch {
	case c.Selected:
		mark = "^"
	case c.Today:
		mark = "*"
	case c.Disabled:
		mark = "-"
	}
	return fmt.Sprintf("%2d%s", c.Day, mark)
}
