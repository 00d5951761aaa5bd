package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mrodal/inmomatch/internal/listing"
	"github.com/mrodal/inmomatch/internal/match"
	"github.com/mrodal/inmomatch/internal/notify"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []match.Recommendation:
		return recommendationsTable(w, v)
	case []listing.Listing:
		return listingsTable(w, v)
	case []listing.SavedSearch:
		return savedSearchesTable(w, v)
	case *notify.RunResult:
		return runResultTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func recommendationsTable(w io.Writer, recs []match.Recommendation) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No similar listings found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tTITLE\tPRICE\tLOCATION\tREASONS")
	fmt.Fprintln(tw, "-----\t-----\t-----\t--------\t-------")

	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.Score,
			truncate(r.Listing.Title, 30),
			r.Listing.FormatPrice(),
			truncate(r.Listing.Location, 20),
			strings.Join(r.Reasons, ", "),
		)
	}

	return tw.Flush()
}

func listingsTable(w io.Writer, listings []listing.Listing) error {
	if len(listings) == 0 {
		fmt.Fprintln(w, "No listings found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tOPERATION\tPRICE\tLOCATION\tCREATED")
	fmt.Fprintln(tw, "--\t-----\t----\t---------\t-----\t--------\t-------")

	for _, l := range listings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			truncate(l.ID, 8),
			truncate(l.Title, 30),
			l.PropertyType,
			l.OperationType,
			l.FormatPrice(),
			truncate(l.Location, 20),
			l.CreatedAt.Format("Jan 02, 2006"),
		)
	}

	return tw.Flush()
}

func savedSearchesTable(w io.Writer, searches []listing.SavedSearch) error {
	if len(searches) == 0 {
		fmt.Fprintln(w, "No saved searches found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tCRITERIA\tACTIVE\tLAST NOTIFIED")
	fmt.Fprintln(tw, "--\t----\t--------\t------\t-------------")

	for _, s := range searches {
		lastNotified := "never"
		if s.LastNotifiedAt != nil {
			lastNotified = s.LastNotifiedAt.Format("Jan 02 15:04")
		}

		active := "no"
		if s.Active {
			active = "yes"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			truncate(s.ID, 8),
			truncate(s.UserEmail, 25),
			formatCriteria(s.Criteria),
			active,
			lastNotified,
		)
	}

	return tw.Flush()
}

func runResultTable(w io.Writer, r *notify.RunResult) error {
	fmt.Fprintln(w, "Digest run complete:")
	fmt.Fprintf(w, "  Searches checked:  %d\n", r.SearchesChecked)
	fmt.Fprintf(w, "  Digests sent:      %d\n", r.DigestsSent)
	fmt.Fprintf(w, "  Listings matched:  %d\n", r.ListingsMatched)

	if len(r.Outcomes) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SEARCH\tUSER\tMATCHED\tRESULT")
		fmt.Fprintln(tw, "------\t----\t-------\t------")

		for _, o := range r.Outcomes {
			result := "skipped"
			switch {
			case o.Err != nil:
				result = "error: " + o.Err.Error()
			case o.Sent:
				result = "sent"
			}

			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
				truncate(o.SearchID, 8),
				truncate(o.UserEmail, 25),
				o.Matched,
				result,
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}

func formatCriteria(c listing.Criteria) string {
	if c.IsEmpty() {
		return "any"
	}

	var parts []string
	if c.HasLocation() {
		parts = append(parts, "location="+c.Location)
	}
	if c.HasPropertyType() {
		parts = append(parts, "type="+c.PropertyType)
	}
	if c.HasPlan() {
		parts = append(parts, "plan="+c.Plan)
	}
	if c.PriceRange != nil {
		parts = append(parts, fmt.Sprintf("price=%.0f-%.0f", c.PriceRange.Min, c.PriceRange.Max))
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
