package cmd

import (
	"fmt"
	"strconv"

	"github.com/creativeprojects/imapstatus/journal"
	"github.com/creativeprojects/imapstatus/term"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const dateFormat = "2006-01-02 15:04:05 MST"

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [account]",
	Short: "Display the connection failures of all accounts, or of one account",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries per account (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	jrnl, err := journal.OpenWithLogger(config.Journal, debugLogger("journal"))
	if err != nil {
		return fmt.Errorf("cannot open journal: %w", err)
	}
	defer jrnl.Close()

	accounts := args
	if len(accounts) == 0 {
		accounts, err = jrnl.Accounts()
		if err != nil {
			return fmt.Errorf("cannot list accounts: %w", err)
		}
	}

	if len(accounts) == 0 {
		term.Info("No failure recorded")
		return nil
	}

	for _, account := range accounts {
		entries, err := jrnl.List(account, historyLimit)
		if err != nil {
			term.Error(err)
			continue
		}
		term.Infof("%s:", account)
		if len(entries) == 0 {
			term.Info("No failure recorded")
			continue
		}
		displayHistory(entries)
	}
	return nil
}

func displayHistory(entries []journal.Entry) {
	table := pterm.DefaultTable.WithBoxed(true).WithHasHeader().WithData(pterm.TableData{
		{"Date", "Event", "Attempt", "Message"},
	})
	for _, entry := range entries {
		table.Data = append(table.Data, []string{
			entry.Time.Format(dateFormat),
			string(entry.Kind),
			strconv.Itoa(entry.Attempt),
			entry.Message,
		})
	}
	_ = table.Render()
}
