package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-thesisforge/pkg/docx"
)

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.docx>",
		Short: "Read back the layout and styles of a generated template",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			snap, err := docx.InspectFile(args[0])
			if err != nil {
				return err
			}

			num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "title\t%s\n", snap.Properties.Title)
			fmt.Fprintf(tw, "page\t%s (%dx%d twips)\n", snap.PageSize.Name, snap.PageSize.Width, snap.PageSize.Height)
			m := snap.Margins
			fmt.Fprintf(tw, "margins\ttop %sin, bottom %sin, left %sin, right %sin\n", num(m.Top), num(m.Bottom), num(m.Left), num(m.Right))
			if normal, ok := snap.DefaultStyle(); ok {
				fmt.Fprintf(tw, "body\t%s %spt, line spacing %s\n", normal.Font, num(normal.Size), num(normal.LineSpacing))
			}
			for _, font := range snap.Fonts {
				if font.AltName != "" {
					fmt.Fprintf(tw, "font\t%s (falls back to %s)\n", font.Name, font.AltName)
					continue
				}
				fmt.Fprintf(tw, "font\t%s\n", font.Name)
			}
			for _, id := range []string{docx.StyleHeading1, docx.StyleHeading2, docx.StyleHeading3, docx.StyleCaption} {
				style, ok := snap.Style(id)
				if !ok {
					continue
				}
				fmt.Fprintf(tw, "style\t%s %spt bold=%t italic=%t before=%s after=%s\n",
					style.ID, num(style.Size), style.Bold, style.Italic, num(style.SpaceBefore), num(style.SpaceAfter))
			}
			for _, field := range snap.Fields() {
				fmt.Fprintf(tw, "field\t%s\n", field)
			}
			if snap.Footer {
				fmt.Fprintf(tw, "footer\t%s\n", snap.FooterField)
			}
			fmt.Fprintf(tw, "headings\t%d\n", len(snap.Headings()))
			return tw.Flush()
		},
	}
}
