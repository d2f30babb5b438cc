// Package datepicker implements the month grid, navigation limits and
// selectability rules behind the site's date picker.
package datepicker

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ISOLayout is the value format written to the form field.
const ISOLayout = "2006-01-02"

// DisplayLayout renders a chosen date for the picker button.
const DisplayLayout = "Mon, Jan 2, 2006"

// Placeholder is the copy shown before anything is selected.
const Placeholder = "Select a date"

// DayNames heads the seven grid columns, Sunday first.
var DayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var (
	// ErrDayDisabled is returned when selecting a day the rules exclude.
	ErrDayDisabled = errors.New("datepicker: day is disabled")
	// ErrDayOutOfRange is returned for day numbers outside the displayed month.
	ErrDayOutOfRange = errors.New("datepicker: day out of range")
)

// Options are the selectability rules.
type Options struct {
	DisablePast     bool
	DisableSundays  bool
	DisableWeekends bool
	MinDate         *time.Time
	MaxDate         *time.Time
	// Disabled locks the whole picker.
	Disabled bool
	// Location defines day boundaries; defaults to time.Local.
	Location *time.Location
}

// DefaultOptions matches the picker's stock behaviour: past days disabled.
func DefaultOptions() Options {
	return Options{DisablePast: true}
}

// Calendar is the state of one picker: the displayed month, the selection
// and whether the dropdown is open.
type Calendar struct {
	opts     Options
	clock    Clock
	loc      *time.Location
	min      *time.Time
	max      *time.Time
	month    time.Month
	year     int
	selected *time.Time
	open     bool
}

// New builds a calendar showing the month of value, or of today when value is nil.
func New(opts Options, clock Clock, value *time.Time) *Calendar {
	if clock == nil {
		clock = SystemClock{}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	c := &Calendar{opts: opts, clock: clock, loc: loc}
	if opts.MinDate != nil {
		m := c.midnight(*opts.MinDate)
		c.min = &m
	}
	if opts.MaxDate != nil {
		m := c.midnight(*opts.MaxDate)
		c.max = &m
	}
	anchor := c.today()
	if value != nil {
		sel := c.midnight(*value)
		c.selected = &sel
		anchor = sel
	}
	c.year, c.month = anchor.Year(), anchor.Month()
	return c
}

func (c *Calendar) midnight(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

func (c *Calendar) today() time.Time {
	return c.midnight(c.clock.Now())
}

func (c *Calendar) date(day int) time.Time {
	return time.Date(c.year, c.month, day, 0, 0, 0, 0, c.loc)
}

// Month returns the displayed month and year.
func (c *Calendar) Month() (time.Month, int) {
	return c.month, c.year
}

// Title is the grid heading, e.g. "March 2026".
func (c *Calendar) Title() string {
	return c.month.String() + " " + strconv.Itoa(c.year)
}

// DaysInMonth is the length of the displayed month.
func (c *Calendar) DaysInMonth() int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(c.year, c.month+1, 0, 0, 0, 0, 0, c.loc).Day()
}

// StartingWeekday is the weekday column of the 1st (Sunday = 0).
func (c *Calendar) StartingWeekday() int {
	return int(c.date(1).Weekday())
}

// Grid lists the cells of the month row-major for a 7-column layout. Zero
// entries are the placeholders before the 1st.
func (c *Calendar) Grid() []int {
	lead := c.StartingWeekday()
	days := c.DaysInMonth()
	cells := make([]int, lead, lead+days)
	for d := 1; d <= days; d++ {
		cells = append(cells, d)
	}
	return cells
}

// CanGoPrevious reports whether the month before is reachable. An explicit
// MinDate takes precedence over DisablePast.
func (c *Calendar) CanGoPrevious() bool {
	first := c.date(1)
	if c.min != nil {
		return first.After(*c.min)
	}
	if c.opts.DisablePast {
		today := c.today()
		return c.year > today.Year() || (c.year == today.Year() && c.month > today.Month())
	}
	return true
}

// CanGoNext reports whether the month after is reachable.
func (c *Calendar) CanGoNext() bool {
	if c.max != nil {
		return c.date(c.DaysInMonth()).Before(*c.max)
	}
	return true
}

// Previous moves back one month, rolling the year at January. It is a
// no-op returning false when the floor has been reached.
func (c *Calendar) Previous() bool {
	if !c.CanGoPrevious() {
		return false
	}
	if c.month == time.January {
		c.month, c.year = time.December, c.year-1
	} else {
		c.month--
	}
	return true
}

// Next moves forward one month, rolling the year at December. It is a
// no-op returning false when the ceiling has been reached.
func (c *Calendar) Next() bool {
	if !c.CanGoNext() {
		return false
	}
	if c.month == time.December {
		c.month, c.year = time.January, c.year+1
	} else {
		c.month++
	}
	return true
}

// IsDisabled applies the selectability rules to a day of the displayed month.
func (c *Calendar) IsDisabled(day int) bool {
	return c.DateDisabled(c.date(day))
}

// DateDisabled applies the selectability rules to an arbitrary date.
func (c *Calendar) DateDisabled(t time.Time) bool {
	d := c.midnight(t)
	if c.opts.DisablePast && d.Before(c.today()) {
		return true
	}
	wd := d.Weekday()
	if c.opts.DisableSundays && wd == time.Sunday {
		return true
	}
	if c.opts.DisableWeekends && (wd == time.Sunday || wd == time.Saturday) {
		return true
	}
	if c.min != nil && d.Before(*c.min) {
		return true
	}
	if c.max != nil && d.After(*c.max) {
		return true
	}
	return false
}

// IsToday reports whether day is the current date.
func (c *Calendar) IsToday(day int) bool {
	return c.date(day).Equal(c.today())
}

// IsSelected reports whether day is the selected date.
func (c *Calendar) IsSelected(day int) bool {
	return c.selected != nil && c.date(day).Equal(*c.selected)
}

// Cell is the render state of one grid position. Today is only set when the
// day is not also selected.
type Cell struct {
	Day         int  `json:"day"`
	Placeholder bool `json:"placeholder"`
	Disabled    bool `json:"disabled"`
	Selected    bool `json:"selected"`
	Today       bool `json:"today"`
}

// DayState resolves the render state of one day of the displayed month.
func (c *Calendar) DayState(day int) Cell {
	if day < 1 || day > c.DaysInMonth() {
		return Cell{Placeholder: true}
	}
	selected := c.IsSelected(day)
	return Cell{
		Day:      day,
		Disabled: c.IsDisabled(day),
		Selected: selected,
		Today:    !selected && c.IsToday(day),
	}
}

// Cells resolves the render state of every grid position.
func (c *Calendar) Cells() []Cell {
	grid := c.Grid()
	out := make([]Cell, len(grid))
	for i, day := range grid {
		out[i] = c.DayState(day)
	}
	return out
}

// Select picks a day of the displayed month, closes the picker and returns
// the ISO value for the form field.
func (c *Calendar) Select(day int) (string, error) {
	if day < 1 || day > c.DaysInMonth() {
		return "", ErrDayOutOfRange
	}
	if c.IsDisabled(day) {
		return "", ErrDayDisabled
	}
	d := c.date(day)
	c.selected = &d
	c.open = false
	return d.Format(ISOLayout), nil
}

// Clear drops the selection.
func (c *Calendar) Clear() {
	c.selected = nil
}

// Selected returns the chosen date, if any.
func (c *Calendar) Selected() (time.Time, bool) {
	if c.selected == nil {
		return time.Time{}, false
	}
	return *c.selected, true
}

// Value is the hidden-field value: the ISO date or "".
func (c *Calendar) Value() string {
	if c.selected == nil {
		return ""
	}
	return c.selected.Format(ISOLayout)
}

// Display is the button label.
func (c *Calendar) Display() string {
	if c.selected == nil {
		return Placeholder
	}
	return FormatDisplay(*c.selected)
}

// FormatDisplay renders t as "Mon, Jan 2, 2006".
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// Toggle opens or closes the dropdown; it does nothing while disabled.
func (c *Calendar) Toggle() {
	if c.opts.Disabled {
		return
	}
	c.open = !c.open
}

// Close hides the dropdown, as on an outside click.
func (c *Calendar) Close() {
	c.open = false
}

// IsOpen reports whether the dropdown is shown.
func (c *Calendar) IsOpen() bool {
	return c.open && !c.opts.Disabled
}

// HelperText is the footer note describing active rules.
func (c *Calendar) HelperText() string {
	var parts []string
	if c.opts.DisablePast {
		parts = append(parts, "Past dates are disabled")
	}
	if c.opts.DisableSundays && !c.opts.DisableWeekends {
		parts = append(parts, "Sundays disabled")
	}
	if c.opts.DisableWeekends {
		parts = append(parts, "Weekends disabled")
	}
	return strings.Join(parts, " • ")
}
