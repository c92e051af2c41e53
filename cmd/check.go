package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/creativeprojects/imapstatus/aggregate"
	"github.com/creativeprojects/imapstatus/cfg"
	"github.com/creativeprojects/imapstatus/mailbox"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const checkTimeout = time.Minute

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Connect to each account once and display the unseen messages",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

type checkResult struct {
	account cfg.Account
	status  mailbox.Status
	err     error
}

func runCheck(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	var pbar *pterm.ProgressbarPrinter
	if !global.quiet && !global.verbose {
		pbar, _ = pterm.DefaultProgressbar.WithTotal(len(config.Accounts)).WithTitle("Checking accounts").Start()
	}
	progress := newProgresser(pbar)
	results := checkAccounts(cmd.Context(), config.Accounts, progress)
	progress.Stop()

	table := pterm.DefaultTable.WithBoxed(true).WithHasHeader().WithData(pterm.TableData{
		{"Account", "Type", "Status", "Unseen"},
	})
	statuses := make(map[mailbox.AccountID]mailbox.Status, len(results))
	for i, result := range results {
		statuses[mailbox.AccountID(i)] = result.status
		state, unseen := "ok", ""
		if count, ok := result.status.Unseen(); ok {
			unseen = strconv.FormatUint(uint64(count), 10)
		} else {
			state = pterm.FgLightRed.Sprint(result.err.Error())
		}
		table.Data = append(table.Data, []string{result.account.Name, string(result.account.Type), state, unseen})
	}
	err = table.Render()
	if err != nil {
		return err
	}

	text, ok := aggregate.Aggregate(statuses)
	if !ok {
		text = "(hidden)"
	}
	pterm.Println("Status line: " + text)
	return nil
}

// checkAccounts opens one session per account and counts the unseen messages
func checkAccounts(ctx context.Context, accounts []cfg.Account, progress *progresser) []checkResult {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]checkResult, len(accounts))
	for i, account := range accounts {
		results[i] = checkAccount(ctx, account)
		progress.Increment()
	}
	return results
}

func checkAccount(ctx context.Context, account cfg.Account) checkResult {
	result := checkResult{account: account, status: mailbox.ErrorStatus()}
	dialer, err := NewDialer(account, debugLogger(account.Name))
	if err != nil {
		result.err = err
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	session, err := dialer.Dial(ctx)
	if err != nil {
		result.err = err
		return result
	}
	defer session.Close()

	count, err := session.QueryUnseen()
	if err != nil {
		result.err = err
		return result
	}
	result.status = mailbox.NormalStatus(count)
	return result
}
