package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/creativeprojects/imapstatus/term"
	"github.com/spf13/cobra"
)

const (
	repositoryOwner = "creativeprojects"
	repositoryName  = "imapstatus"
	detectTimeout   = 30 * time.Second
)

var selfUpdateCmd = &cobra.Command{
	Use:   "selfupdate",
	Short: "Download newest release from Github and update",
	RunE:  runSelfUpdate,
}

var (
	appVersion = ""
	appCommit  = ""
	appDate    = ""
	appBuiltBy = ""
)

func init() {
	rootCmd.AddCommand(selfUpdateCmd)
}

func setApp(version, commit, date, builtBy string) {
	appVersion = version
	appCommit = commit
	appDate = date
	appBuiltBy = builtBy
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	if global.verbose {
		selfupdate.SetLogger(term.NewLogger(term.LevelDebug, "selfupdate"))
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// only filters return an error
	updater, _ := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
	})

	term.Debugf("looking for a release newer than %s in %s/%s", appVersion, repositoryOwner, repositoryName)
	latest, found, err := detectLatest(ctx, updater)
	if err != nil {
		return fmt.Errorf("unable to detect latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version for %s/%s could not be found from github repository", runtime.GOOS, runtime.GOARCH)
	}
	if latest.LessOrEqual(appVersion) {
		term.Infof("Current version (%s) is the latest", appVersion)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}
	term.Infof("Downloading version %s...", latest.Version())
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("unable to update binary: %w", err)
	}
	term.Infof("Successfully updated to version %s", latest.Version())
	return nil
}

func detectLatest(ctx context.Context, updater *selfupdate.Updater) (*selfupdate.Release, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	return updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(repositoryOwner, repositoryName))
}
