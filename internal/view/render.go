package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"subtrackr/internal/core"
	"subtrackr/internal/services"
)

const upcomingMark = "!"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// RenderList writes one row per subscription. Rows renewing inside the window are marked with "!".
func (f Formatter) RenderList(w io.Writer, ov services.Overview) error {
	if len(ov.Items) == 0 {
		_, err := fmt.Fprintln(w, "No subscriptions yet.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "\tNAME\tCOST\tCYCLE\tRENEWS\tDUE\tCATEGORY\tID")
	for _, it := range ov.Items {
		s := it.Subscription
		mark, due := "", "?"
		if it.DateKnown {
			due = DaysLabel(it.DaysUntil)
		}
		if it.Upcoming {
			mark = upcomingMark
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, s.Name, f.Money(s.Cost), s.BillingCycle, FormatDate(s.RenewalDate), due, category(s.Category), s.ID)
	}
	return tw.Flush()
}

// RenderStats writes the spend totals and the per-category breakdown.
func (f Formatter) RenderStats(w io.Writer, sum core.Summary) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Monthly total\t%s\n", f.Money(sum.MonthlyTotal))
	fmt.Fprintf(tw, "Yearly total\t%s\n", f.Money(sum.YearlyTotal))
	fmt.Fprintf(tw, "Active subscriptions\t%d\n", sum.Count)
	fmt.Fprintf(tw, "Average per service\t%s/mo\n", f.Money(sum.AverageMonthly))
	fmt.Fprintf(tw, "Renewing soon\t%d\n", len(sum.Upcoming))
	if len(sum.ByCategory) > 0 {
		fmt.Fprintln(tw, "\t")
		fmt.Fprintln(tw, "CATEGORY\tMONTHLY\tCOUNT")
		for _, c := range sum.ByCategory {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Name, f.Money(c.Amount), c.Count)
		}
	}
	return tw.Flush()
}

// RenderUpcoming writes the renewals inside the window, in the order given.
func (f Formatter) RenderUpcoming(w io.Writer, renewals []core.Renewal) error {
	if len(renewals) == 0 {
		_, err := fmt.Fprintf(w, "No renewals in the next %d days.\n", services.DefaultUpcomingWindowDays)
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tCOST\tRENEWS\tDUE")
	for _, r := range renewals {
		s := r.Subscription
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, f.Money(s.Cost), FormatDate(s.RenewalDate), DaysLabel(r.DaysUntil))
	}
	return tw.Flush()
}

func category(c string) string {
	if c == "" {
		return "-"
	}
	return c
}
