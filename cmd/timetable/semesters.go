package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/timetable/internal/cli"
	"github.com/Veraticus/timetable/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func semestersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "semesters",
		Short: "List semesters and when their timetable was last updated",
		RunE:  runSemesters,
	}
}

func runSemesters(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sourceConfig, err := config.LoadSourceConfig()
	if err != nil {
		return err
	}
	catalogue, err := openCatalogue(ctx, sourceConfig)
	if err != nil {
		return err
	}

	info, err := catalogue.Semesters(ctx)
	if err != nil {
		return fmt.Errorf("failed to read semesters: %w", err)
	}

	for _, sem := range info.List {
		marker := "  "
		if strings.EqualFold(sem, info.Active) {
			marker = cli.SuccessIcon + " "
		}
		fmt.Fprintln(out, marker+sem)
	}

	wanted := viper.GetString("filter.semester")
	if wanted == "" {
		wanted = info.Active
	}
	update, err := catalogue.LastUpdate(ctx, wanted)
	if err != nil {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Last update unknown: %v", err)))
		return nil
	}

	date := update.Date
	if !update.Parsed.IsZero() {
		date = update.Parsed.Format("2 January 2006")
	}
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%s last updated %s", update.Semester, date)))
	return nil
}
