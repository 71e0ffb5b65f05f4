package output

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// CLIFormatter renders aligned plain-text tables
type CLIFormatter struct{}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format { return FormatCLI }

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

// RenderEstimate writes the cost and timeline breakdowns
func (f *CLIFormatter) RenderEstimate(w io.Writer, est EstimateView) error {
	c, tl := est.Breakdown, est.Timeline
	tw := table(w)

	fmt.Fprintf(tw, "Message volume\t%d\t\n", c.MessageVolume)
	fmt.Fprintf(tw, "Additional tiers\t%d\t\n", c.AdditionalTiers)
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintf(tw, "Base cost\t$%s\t\n", c.BaseCost)
	fmt.Fprintf(tw, "Migration tiers\t$%s\t\n", c.AddonServiceCost)
	fmt.Fprintf(tw, "Data preparation\t$%s\t\n", c.DataPrepCost)
	fmt.Fprintf(tw, "Total cost\t$%s\t\n", c.TotalCost)
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintf(tw, "Base weeks\t%s\t\n", tl.BaseWeeks)
	fmt.Fprintf(tw, "Additional weeks\t%s\t\n", tl.AdditionalWeeks)
	fmt.Fprintf(tw, "Total weeks\t%s\t\n", tl.TotalWeeks)

	return tw.Flush()
}

// RenderCatalog writes one line per add-on service
func (f *CLIFormatter) RenderCatalog(w io.Writer, catalog []AddonRate) error {
	tw := table(w)
	fmt.Fprintln(tw, "SERVICE\tWEEKLY RATE\t")
	for _, r := range catalog {
		fmt.Fprintf(tw, "%s\t$%s\t\n", r.ServiceName, r.WeeklyRate)
	}
	return tw.Flush()
}

// RenderQuote writes an add-on quote
func (f *CLIFormatter) RenderQuote(w io.Writer, q AddonQuote) error {
	tw := table(w)
	fmt.Fprintf(tw, "Service\t%s\t\n", q.ServiceName)
	fmt.Fprintf(tw, "Weeks\t%d\t\n", q.Weeks)
	fmt.Fprintf(tw, "Weekly rate\t$%s\t\n", q.WeeklyRate)
	fmt.Fprintf(tw, "Total cost\t$%s\t\n", q.TotalCost)
	return tw.Flush()
}
