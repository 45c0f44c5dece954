// Package maintenance provides operator utilities for the admin database:
// bootstrapping admin accounts, resetting passwords, suspending accounts
// and reporting configured webhooks.
package maintenance

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/louisbranch/lanparty/internal/platform/config"
)

// Config holds maintenance command configuration.
type Config struct {
	DBPath  string        `env:"LANPARTY_ADMIN_DB_PATH" envDefault:"data/admin.db"`
	Timeout time.Duration `env:"LANPARTY_MAINTENANCE_TIMEOUT" envDefault:"1m"`

	CreateAdmin   string
	ResetPassword string
	Suspend       string
	Unsuspend     string
	WebhookReport bool
	JSONOutput    bool
}

// ParseConfig parses env defaults and then flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to the admin sqlite database (default: LANPARTY_ADMIN_DB_PATH or data/admin.db)")
	fs.StringVar(&cfg.CreateAdmin, "create-admin", "", "create an admin account with this screen name; the password is read from stdin")
	fs.StringVar(&cfg.ResetPassword, "reset-password", "", "replace the password of this screen name; the password is read from stdin")
	fs.StringVar(&cfg.Suspend, "suspend", "", "suspend the account with this screen name")
	fs.StringVar(&cfg.Unsuspend, "unsuspend", "", "lift the suspension of this screen name")
	fs.BoolVar(&cfg.WebhookReport, "webhook-report", false, "list configured outgoing webhooks")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON reports")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// actions counts the selected actions; exactly one is allowed per run.
func (c Config) actions() int {
	n := 0
	for _, set := range []bool{
		strings.TrimSpace(c.CreateAdmin) != "",
		strings.TrimSpace(c.ResetPassword) != "",
		strings.TrimSpace(c.Suspend) != "",
		strings.TrimSpace(c.Unsuspend) != "",
		c.WebhookReport,
	} {
		if set {
			n++
		}
	}
	return n
}

// Run executes the selected maintenance action. Passwords are read from
// the first line of in.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	switch cfg.actions() {
	case 0:
		return errors.New("one of -create-admin, -reset-password, -suspend, -unsuspend or -webhook-report is required")
	case 1:
	default:
		return errors.New("only one maintenance action can run at a time")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("db path is required")
	}

	d, err := openDeps(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			fmt.Fprintf(out, "Warning: close store: %v\n", err)
		}
	}()

	switch {
	case cfg.CreateAdmin != "":
		return createAdmin(ctx, d, strings.TrimSpace(cfg.CreateAdmin), in, out)
	case cfg.ResetPassword != "":
		return resetPassword(ctx, d, strings.TrimSpace(cfg.ResetPassword), in, out)
	case cfg.Suspend != "":
		return setSuspended(ctx, d, strings.TrimSpace(cfg.Suspend), true, out)
	case cfg.Unsuspend != "":
		return setSuspended(ctx, d, strings.TrimSpace(cfg.Unsuspend), false, out)
	default:
		return webhookReport(ctx, d, cfg.JSONOutput, out)
	}
}

func createAdmin(ctx context.Context, d deps, screenName string, in io.Reader, out io.Writer) error {
	password, err := readPassword(in)
	if err != nil {
		return err
	}
	user, err := d.users.Create(ctx, screenName, true)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if err := d.authn.CreatePasswordHash(ctx, user.ID, password); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	fmt.Fprintf(out, "Created admin %s (%s)\n", user.ScreenName, user.ID)
	return nil
}

// resetPassword replaces the password and revokes the user's sessions.
// The user counts as the initiator of the change.
func resetPassword(ctx context.Context, d deps, screenName string, in io.Reader, out io.Writer) error {
	password, err := readPassword(in)
	if err != nil {
		return err
	}
	user, err := d.users.FindByScreenName(ctx, screenName)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if _, err := d.authn.UpdatePasswordHash(ctx, user.ID, password, user.ID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	fmt.Fprintf(out, "Reset password of %s\n", user.ScreenName)
	return nil
}

func setSuspended(ctx context.Context, d deps, screenName string, suspended bool, out io.Writer) error {
	user, err := d.users.FindByScreenName(ctx, screenName)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if suspended {
		err = d.users.Suspend(ctx, user.ID)
	} else {
		err = d.users.Unsuspend(ctx, user.ID)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	state := "Unsuspended"
	if suspended {
		state = "Suspended"
	}
	fmt.Fprintf(out, "%s %s\n", state, user.ScreenName)
	return nil
}

type webhookRow struct {
	ID          string   `json:"id"`
	Format      string   `json:"format"`
	Description string   `json:"description,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	EventTypes  []string `json:"event_types"`
	Enabled     bool     `json:"enabled"`
}

func webhookReport(ctx context.Context, d deps, jsonOutput bool, out io.Writer) error {
	all, err := d.webhooks.GetAllWebhooks(ctx)
	if err != nil {
		return fmt.Errorf("list webhooks: %w", err)
	}
	rows := make([]webhookRow, 0, len(all))
	for _, hook := range all {
		rows = append(rows, webhookRow{
			ID:          hook.ID.String(),
			Format:      string(hook.Format),
			Description: hook.Description,
			Channel:     hook.Channel(),
			EventTypes:  hook.EventTypes,
			Enabled:     hook.Enabled,
		})
	}

	if jsonOutput {
		encoded, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		fmt.Fprintln(out, string(encoded))
		return nil
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No webhooks configured")
		return nil
	}
	for _, row := range rows {
		state := "disabled"
		if row.Enabled {
			state = "enabled"
		}
		fmt.Fprintf(out, "%s %s %s [%s] %s\n", row.ID, row.Format, state, strings.Join(row.EventTypes, ","), row.Description)
	}
	return nil
}

func readPassword(in io.Reader) (string, error) {
	if in == nil {
		return "", errors.New("password input is required")
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required on stdin")
	}
	return password, nil
}
