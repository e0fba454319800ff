package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"kpisync/internal/domain"
	"kpisync/internal/usecase"
)

var (
	syncLimit     int
	syncNoDetails bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync all person channels to the spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, err := newApp(ctx)
		if err != nil {
			exitCode = exitFailure
			return err
		}
		defer application.Close()

		workspace, err := application.Slack.CheckConnection(ctx)
		if err != nil {
			exitCode = exitFailure
			return err
		}
		fmt.Printf("Connected to Slack workspace: %s\n", workspace)

		report, err := application.Pipeline.Sync(ctx, usecase.SyncOptions{
			Limit:          syncLimit,
			IncludeDetails: !syncNoDetails,
		})
		if err != nil {
			exitCode = exitFailure
			return err
		}

		printReport(report)
		if report.Partial() {
			exitCode = exitPartial
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available person channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, err := newApp(ctx)
		if err != nil {
			exitCode = exitFailure
			return err
		}
		defer application.Close()

		channels, err := application.Pipeline.ListChannels(ctx)
		if err != nil {
			exitCode = exitFailure
			return err
		}

		if len(channels) == 0 {
			fmt.Println("No person channels found (個人_名前 format)")
			return nil
		}

		fmt.Printf("Found %d person channels:\n", len(channels))
		for _, ch := range channels {
			marker := "📢"
			if ch.IsPrivate {
				marker = "🔒"
			}
			fmt.Printf("  %s %s (%s)\n", marker, ch.Name, ch.Person)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show last-sync timestamp per channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, err := newApp(ctx)
		if err != nil {
			exitCode = exitFailure
			return err
		}
		defer application.Close()

		entries, err := application.Pipeline.Status(ctx)
		if err != nil {
			exitCode = exitFailure
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No channels synced yet")
			return nil
		}

		ordered := make([]string, 0, len(entries))
		for id := range entries {
			ordered = append(ordered, id)
		}
		sort.Slice(ordered, func(i, j int) bool {
			return entries[ordered[i]].ChannelName < entries[ordered[j]].ChannelName
		})

		fmt.Println("Sync status:")
		for _, id := range ordered {
			entry := entries[id]
			fmt.Printf("  %s: last synced %s (%d messages)\n",
				entry.ChannelName, entry.LastSync.Format("2006-01-02 15:04:05"), entry.MessageCount)
		}

		channels, messages := usecase.SyncTotals(entries)
		fmt.Printf("Channels synced: %d\n", channels)
		fmt.Printf("Total messages: %d\n", messages)
		return nil
	},
}

func printReport(report domain.RunReport) {
	fmt.Println("\nSync completed!")
	for _, outcome := range report.Outcomes {
		if outcome.Synced {
			fmt.Printf("  synced  %s\n", outcome.Channel)
		} else {
			fmt.Printf("  skipped %s (%s)\n", outcome.Channel, outcome.Reason)
		}
	}
	fmt.Printf("Channels processed: %d\n", report.ChannelsProcessed)
	fmt.Printf("Messages synced: %d\n", report.MessagesSynced)
	fmt.Printf("Errors: %d\n", report.Errors)
}

func init() {
	syncCmd.Flags().IntVarP(&syncLimit, "limit", "l", 100, "maximum messages to fetch per channel (0 = no cap)")
	syncCmd.Flags().BoolVar(&syncNoDetails, "no-details", false, "skip per-person detail sheets")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
}
