package presenter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// RenderText writes the view for a terminal.
func RenderText(w io.Writer, v View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\n", v.Route)
	fmt.Fprintf(tw, "Nous sommes le %s, demain les trains pour le %s sortiront.\n", v.TodayLabel, v.ReleaseLabel)

	if len(v.Sections) == 0 {
		fmt.Fprintln(tw, "\nAucun train trouvé pour ce trajet.")
		return tw.Flush()
	}

	for _, s := range v.Sections {
		fmt.Fprintf(tw, "\n%s\n", s.Label)
		for _, col := range []Column{s.Outbound, s.Return} {
			fmt.Fprintf(tw, "  %s\n", col.Title)
			if col.Empty {
				fmt.Fprintf(tw, "    %s\n", col.EmptyText)
				continue
			}
			for _, day := range col.Days {
				fmt.Fprintf(tw, "    %s :\t%s\n", day.Label, strings.Join(day.Times(), ", "))
			}
		}
	}

	return tw.Flush()
}
