package services

import (
	"fmt"
	"strings"

	"estrenos-monitor/models"
)

// PrintSummary renders the end-of-run console overview: counts, the
// titles that raised alerts, and the fetch errors worth a look.
func PrintSummary(report *models.Report, run *models.RunSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🎬 ESTRENOS MONITOR — %s\033[0m\n", report.Date)
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Catalog titles    : \033[1m%d\033[0m\n", run.CatalogSize)
	fmt.Printf("  Titles in window  : \033[1m%d\033[0m\n", run.TitlesInWindow)
	fmt.Printf("  Upcoming          : \033[1m%d\033[0m\n", len(report.Upcoming))
	fmt.Printf("  Released          : \033[1m%d\033[0m\n", len(report.Released))
	fmt.Printf("  Fetch errors      : \033[1m%d\033[0m\n", run.FetchErrors)
	fmt.Println()

	// Alerts
	fmt.Printf("\033[1;33m  Alerts\033[0m\n")
	fmt.Printf("  %s\n", thin)
	alerts := 0
	for _, row := range append(append([]*models.ReportRow{}, report.Upcoming...), report.Released...) {
		if !row.HasAlert {
			continue
		}
		alerts++
		fmt.Printf("  \033[1;31m▲\033[0m %s (%s)\n", truncate(row.Title, 40), row.ReleaseDate)
		for _, reason := range row.AlertReasons {
			fmt.Printf("      %s\n", reason)
		}
	}
	if alerts == 0 {
		fmt.Printf("  No alerts today\n")
	}
	fmt.Println()

	// Movers: released titles with today's box office
	fmt.Printf("\033[1;33m  Box Office (today)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	printed := 0
	for _, row := range report.Released {
		if row.Tickets == nil && row.Cume == nil {
			continue
		}
		printed++
		fmt.Printf("  %-42s %8s tickets  %10s cume\n",
			truncate(row.Title, 40), models.FmtNum(row.Tickets), models.FmtNum(row.Cume))
	}
	if printed == 0 {
		fmt.Printf("  No box-office data\n")
	}
	fmt.Println()

	// Errors ("no trailer" is expected, not an error worth printing)
	errors := 0
	for _, row := range append(append([]*models.ReportRow{}, report.Upcoming...), report.Released...) {
		trailerErr := row.TrailerErr
		if trailerErr == models.ErrNoTrailer {
			trailerErr = ""
		}
		if trailerErr == "" && row.SocialErr == "" {
			continue
		}
		if errors == 0 {
			fmt.Printf("\033[1;33m  Source Errors\033[0m\n")
			fmt.Printf("  %s\n", thin)
		}
		errors++
		if trailerErr != "" {
			fmt.Printf("  %-42s trailer: %s\n", truncate(row.Title, 40), trailerErr)
		}
		if row.SocialErr != "" {
			fmt.Printf("  %-42s social:  %s\n", truncate(row.Title, 40), row.SocialErr)
		}
	}
	if errors > 0 {
		fmt.Println()
	}

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

// truncate shortens to max runes, not bytes; titles here are full of
// accented characters.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
