package cfg

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AccountType string

const (
	IMAP    AccountType = "imap"
	MAILDIR AccountType = "maildir"
)

type OutputFormat string

const (
	FormatI3bar OutputFormat = "i3bar"
	FormatPlain OutputFormat = "plain"
)

const (
	DefaultRetryDelay = 3 * time.Second
	DefaultCoalesce   = 30 * time.Millisecond
	DefaultMailbox    = "INBOX"
	DefaultOutputName = "imap"
	DefaultTLSPort    = 993
	DefaultPort       = 143
)

type Config struct {
	Retry    Retry     `yaml:"retry"`
	Output   Output    `yaml:"output"`
	Journal  string    `yaml:"journal"`
	Accounts []Account `yaml:"accounts"`
}

// Retry is the delay between two connection attempts.
// With no max-delay and no factor the delay never changes.
type Retry struct {
	Delay    time.Duration `yaml:"delay"`
	MaxDelay time.Duration `yaml:"max-delay"`
	Factor   float64       `yaml:"factor"`
	Jitter   bool          `yaml:"jitter"`
}

type Output struct {
	Format   OutputFormat  `yaml:"format"`
	Name     string        `yaml:"name"`
	Coalesce time.Duration `yaml:"coalesce"`
}

type Account struct {
	Name                string        `yaml:"name"`
	Type                AccountType   `yaml:"type"`
	Host                string        `yaml:"host"`
	Port                int           `yaml:"port"`
	Username            string        `yaml:"username"`
	Password            string        `yaml:"password"`
	Mailbox             string        `yaml:"mailbox"`
	NoTLS               bool          `yaml:"no-tls"`
	SkipTLSVerification bool          `yaml:"skip-tls-verification"`
	Compress            bool          `yaml:"compress"`
	Keepalive           time.Duration `yaml:"keepalive"`
	Root                string        `yaml:"root"`
}

// ServerURL is the host:port address of an IMAP account
func (a Account) ServerURL() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

func newConfig() *Config {
	return &Config{}
}

// LoadFromFile loads the configuration from the file
func LoadFromFile(fileName string) (*Config, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(file)
}

// Load reads, completes and validates the configuration
func Load(reader io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	config := newConfig()
	err := decoder.Decode(config)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}
	config.normalize()
	err = config.Validate()
	if err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) normalize() {
	if c.Retry.Delay == 0 {
		c.Retry.Delay = DefaultRetryDelay
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatI3bar
	}
	if c.Output.Name == "" {
		c.Output.Name = DefaultOutputName
	}
	if c.Output.Coalesce == 0 {
		c.Output.Coalesce = DefaultCoalesce
	}
	if c.Journal == "" {
		c.Journal = DefaultJournalFile()
	}
	for i := range c.Accounts {
		account := &c.Accounts[i]
		if account.Name == "" {
			account.Name = "account-" + strconv.Itoa(i)
		}
		if account.Type == "" {
			account.Type = IMAP
		}
		if account.Type != IMAP {
			continue
		}
		if account.Mailbox == "" {
			account.Mailbox = DefaultMailbox
		}
		if account.Port == 0 {
			account.Port = DefaultTLSPort
			if account.NoTLS {
				account.Port = DefaultPort
			}
		}
	}
}

// Validate returns all the errors found in the configuration
func (c *Config) Validate() error {
	errs := make([]error, 0)
	if c.Retry.Delay < 0 || c.Retry.MaxDelay < 0 {
		errs = append(errs, errors.New("retry: delays cannot be negative"))
	}
	if c.Retry.Factor < 0 {
		errs = append(errs, errors.New("retry: factor cannot be negative"))
	}
	if c.Output.Format != FormatI3bar && c.Output.Format != FormatPlain {
		errs = append(errs, fmt.Errorf("output: unknown format %q", c.Output.Format))
	}
	if c.Output.Coalesce < 0 {
		errs = append(errs, errors.New("output: coalesce cannot be negative"))
	}
	if len(c.Accounts) == 0 {
		errs = append(errs, errors.New("no account defined"))
	}

	names := make(map[string]bool, len(c.Accounts))
	for _, account := range c.Accounts {
		if names[account.Name] {
			errs = append(errs, fmt.Errorf("account %q: duplicate name", account.Name))
		}
		names[account.Name] = true
		errs = append(errs, account.validate()...)
	}
	return errors.Join(errs...)
}

func (a Account) validate() []error {
	errs := make([]error, 0)
	switch a.Type {
	case IMAP:
		if a.Host == "" {
			errs = append(errs, fmt.Errorf("account %q: missing host", a.Name))
		}
		if a.Port < 1 || a.Port > 65535 {
			errs = append(errs, fmt.Errorf("account %q: invalid port %d", a.Name, a.Port))
		}
		if a.Username == "" {
			errs = append(errs, fmt.Errorf("account %q: missing username", a.Name))
		}
		if a.Password == "" {
			errs = append(errs, fmt.Errorf("account %q: missing password", a.Name))
		}
		if a.Keepalive < 0 {
			errs = append(errs, fmt.Errorf("account %q: keepalive cannot be negative", a.Name))
		}
	case MAILDIR:
		if a.Root == "" {
			errs = append(errs, fmt.Errorf("account %q: missing root", a.Name))
		}
	default:
		errs = append(errs, fmt.Errorf("account %q: unknown type %q", a.Name, a.Type))
	}
	return errs
}

// DefaultJournalFile is in the XDG state directory
func DefaultJournalFile() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "imapstatus", "journal.db")
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "imapstatus", "journal.db")
}
