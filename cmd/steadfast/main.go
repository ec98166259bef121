package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"steadfast/internal/anchor"
	"steadfast/internal/app"
	"steadfast/internal/catalog"
	"steadfast/internal/config"
	"steadfast/internal/encryption"
	"steadfast/internal/model"
	"steadfast/internal/widget"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
func newApp(ctx context.Context, command string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var passphrase string
	if cfg.Store.Encryption.Type == "age" && encryption.NewAgeSealer(cfg.Store.Encryption, "").NeedsPassphrase() {
		if passphrase, err = app.PromptPassphrase("Key passphrase: ", os.Stderr); err != nil {
			return nil, err
		}
	}

	a, err := app.NewApp(ctx, cfg, command, app.Options{Passphrase: passphrase})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var jsonOutput bool

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// payloadJSON mirrors the stored layout for display.
type payloadJSON struct {
	ID           string `json:"id"`
	Reference    string `json:"reference"`
	DisplayText  string `json:"displayText"`
	InhalePhrase string `json:"inhalePhrase"`
	ExhalePhrase string `json:"exhalePhrase"`
	AnchorDate   string `json:"anchorDate"`
	LastUpdated  string `json:"lastUpdated"`
}

func printPayload(p model.DailyAnchorPayload) error {
	if jsonOutput {
		return printJSON(payloadJSON{
			ID:           p.ID,
			Reference:    p.Reference,
			DisplayText:  p.DisplayText,
			InhalePhrase: p.InhalePhrase,
			ExhalePhrase: p.ExhalePhrase,
			AnchorDate:   p.AnchorDate.Format("2006-01-02"),
			LastUpdated:  p.LastUpdated.Format(time.RFC3339),
		})
	}
	fmt.Printf("%s  (%s)\n", p.Reference, p.AnchorDate.Format("Mon Jan 2 2006"))
	if p.DisplayText != "" {
		fmt.Printf("  %s\n", p.DisplayText)
	}
	fmt.Printf("  Inhale: %s\n", p.InhalePhrase)
	fmt.Printf("  Exhale: %s\n", p.ExhalePhrase)
	return nil
}

func printEntry(i int, e model.AnchorEntry) {
	inhale, exhale := anchor.BreathPhrases(e)
	fmt.Printf("%d. %s\n     in: %s\n    out: %s\n", i+1, e.Reference, inhale, exhale)
}

var rootCmd = &cobra.Command{
	Use:          "steadfast",
	Short:        "Daily scripture anchor, shared by app, widget and notifications",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		deviceID := uuid.New().String()
		cfg := config.NewConfig(deviceID, defaults.BaseDir)

		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Device ID: %s\n", deviceID)
		fmt.Printf("Base Dir:  %s\n", defaults.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		fmt.Printf("Device ID:   %s\n", cfg.DeviceID)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Timezone:    %s\n", orDefault(cfg.Timezone, "system"))
		fmt.Printf("Store:       %s\n", cfg.Store.Type)
		fmt.Printf("Encryption:  %s\n", orDefault(cfg.Store.Encryption.Type, "none"))
		fmt.Printf("Focus areas: %s (used: %t)\n", strings.Join(cfg.Profile.FocusAreas, ", "), cfg.Profile.UseFocusAreas)
		fmt.Printf("Notify:      %t at %02d:%02d\n", cfg.Notifications.Enabled, cfg.Notifications.AnchorHour, cfg.Notifications.AnchorMinute)
		return nil
	},
}

var configKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the age key pair used to encrypt the shared payload",
	RunE: func(cmd *cobra.Command, args []string) error {
		protect, _ := cmd.Flags().GetBool("passphrase")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		sealer := encryption.NewAgeSealer(cfg.Store.Encryption, "")
		if sealer.IsConfigured() {
			return fmt.Errorf("keys already exist at %s", cfg.Store.Encryption.PrivateKeyPath)
		}

		var passphrase string
		if protect {
			if passphrase, err = app.PromptPassphrase("New key passphrase: ", os.Stderr); err != nil {
				return err
			}
			if passphrase == "" {
				return fmt.Errorf("passphrase must not be empty")
			}
		}

		if err := sealer.Setup(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Printf("Public key:  %s\n", cfg.Store.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s\n", cfg.Store.Encryption.PrivateKeyPath)
		if cfg.Store.Encryption.Type != "age" {
			fmt.Println(`Set [store.encryption] type = "age" to start encrypting the shared payload.`)
		}
		return nil
	},
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// anchor command
var anchorCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Work with the anchor of the day",
}

var anchorTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List today's anchors without saving",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		dateStr, _ := cmd.Flags().GetString("date")

		a, err := newApp(cmd.Context(), "anchor today")
		if err != nil {
			return err
		}
		defer a.Close()

		var entries []model.AnchorEntry
		if dateStr == "" {
			entries, err = a.TodayAnchors(count)
		} else {
			date, perr := time.ParseInLocation("2006-01-02", dateStr, a.Now().Location())
			if perr != nil {
				return fmt.Errorf("parsing --date: %w", perr)
			}
			entries, err = a.AnchorsFor(date, count)
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(entries)
		}
		for i, e := range entries {
			printEntry(i, e)
		}
		return nil
	},
}

var anchorSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Make sure the shared payload is today's anchor",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		a, err := newApp(cmd.Context(), "anchor sync")
		if err != nil {
			return err
		}
		defer a.Close()

		var p model.DailyAnchorPayload
		if force {
			p, err = a.Refresh()
		} else {
			p, err = a.Sync()
		}
		if err != nil {
			return fmt.Errorf("syncing anchor: %w", err)
		}
		return printPayload(p)
	},
}

var anchorSetCmd = &cobra.Command{
	Use:   "set REFERENCE",
	Short: "Pin today's anchor manually",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inhale, _ := cmd.Flags().GetString("inhale")
		exhale, _ := cmd.Flags().GetString("exhale")

		a, err := newApp(cmd.Context(), "anchor set")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.SetAnchor(args[0], inhale, exhale)
		if err != nil {
			return fmt.Errorf("setting anchor: %w", err)
		}
		return printPayload(p)
	},
}

var anchorShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the persisted payload",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "anchor show")
		if err != nil {
			return err
		}
		defer a.Close()

		p := a.Show()
		if p == nil {
			fmt.Println("No anchor payload stored.")
			return nil
		}
		return printPayload(*p)
	},
}

var anchorClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the persisted payload",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "anchor clear")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Clear(); err != nil {
			return fmt.Errorf("clearing anchor: %w", err)
		}
		fmt.Println("Anchor payload cleared.")
		return nil
	},
}

var anchorFallbackCmd = &cobra.Command{
	Use:   "fallback",
	Short: "Print the default payload",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "anchor fallback")
		if err != nil {
			return err
		}
		defer a.Close()
		return printPayload(a.Fallback())
	},
}

// widget command
var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Widget timeline provider",
}

var widgetTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the widget timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		placeholder, _ := cmd.Flags().GetBool("placeholder")

		a, err := newApp(cmd.Context(), "widget timeline")
		if err != nil {
			return err
		}
		defer a.Close()

		if placeholder {
			e := a.WidgetPlaceholder()
			if jsonOutput {
				return printJSON(e)
			}
			printWidgetEntry(e)
			return nil
		}

		tl := a.WidgetTimeline()
		if jsonOutput {
			return printJSON(tl)
		}
		for _, e := range tl.Entries {
			printWidgetEntry(e)
		}
		fmt.Printf("Refresh at %s\n", tl.RefreshAt.Format("2006-01-02 15:04"))
		return nil
	},
}

func printWidgetEntry(e widget.Entry) {
	fmt.Println(e.Ref)
	if e.Text != "" {
		fmt.Printf("  %s\n", e.Text)
	}
	fmt.Printf("  %s\n", widget.InlineLine(e))
}

// notify command
var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification planning",
}

var notifyPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the notifications that would be scheduled",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "notify plan")
		if err != nil {
			return err
		}
		defer a.Close()

		plans, err := a.NotificationPlan()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(plans)
		}
		if len(plans) == 0 {
			fmt.Println("Notifications are disabled.")
			return nil
		}
		for _, n := range plans {
			repeat := "once"
			if n.Repeats {
				repeat = "daily"
			}
			fmt.Printf("%s  %-5s  %s\n  %s\n  %s\n", n.FireAt.Format("2006-01-02 15:04"), repeat, n.ID, n.Title, n.Body)
		}
		return nil
	},
}

// packs command
var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "Browse verse packs and prayer plans",
}

var packsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List verse packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "packs list")
		if err != nil {
			return err
		}
		defer a.Close()

		for _, p := range a.Catalog().Packs() {
			fmt.Printf("%-16s %s (%d verses)\n", p.ID, p.Title, len(p.Verses))
		}
		return nil
	},
}

var packsShowCmd = &cobra.Command{
	Use:   "show PACK_ID",
	Short: "Show a verse pack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "packs show")
		if err != nil {
			return err
		}
		defer a.Close()

		p, ok := a.Catalog().Pack(args[0])
		if !ok {
			return fmt.Errorf("no pack with id %q", args[0])
		}
		if jsonOutput {
			return printPackJSON(p)
		}

		fmt.Printf("%s\n%s\n\n", p.Title, p.Description)
		for i, v := range p.Verses {
			printEntry(i, v)
		}
		for _, r := range p.Reflections {
			fmt.Printf("\n%s (%ds)\n  %s\n", r.Title, r.DurationSec, r.Body)
		}
		return nil
	},
}

// printPackJSON writes the pack with its verses in the library file layout,
// so the output can be edited and fed back into a library.
func printPackJSON(p model.VersePack) error {
	verses := make([]json.RawMessage, 0, len(p.Verses))
	for _, v := range p.Verses {
		data, err := catalog.EncodeVerse(v)
		if err != nil {
			return fmt.Errorf("encoding verse %s: %w", v.Reference, err)
		}
		verses = append(verses, data)
	}
	return printJSON(struct {
		ID          string             `json:"id"`
		Title       string             `json:"title"`
		Description string             `json:"description"`
		Verses      []json.RawMessage  `json:"verses"`
		Reflections []model.Reflection `json:"reflections"`
	}{p.ID, p.Title, p.Description, verses, p.Reflections})
}

var packsPlansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List prayer plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "packs plans")
		if err != nil {
			return err
		}
		defer a.Close()

		for _, plan := range a.Catalog().PrayerPlans() {
			fmt.Printf("%s\n", plan.Title)
			for i, step := range plan.Steps {
				fmt.Printf("  %d. %s\n", i+1, step)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configKeygenCmd.Flags().Bool("passphrase", false, "protect the private key with a passphrase")
	configCmd.AddCommand(configKeygenCmd)

	rootCmd.AddCommand(anchorCmd)
	anchorTodayCmd.Flags().IntP("count", "n", 3, "number of anchors")
	anchorTodayCmd.Flags().String("date", "", "date to select for (YYYY-MM-DD)")
	anchorCmd.AddCommand(anchorTodayCmd)
	anchorSyncCmd.Flags().Bool("force", false, "recompute even if today's payload is stored")
	anchorCmd.AddCommand(anchorSyncCmd)
	anchorSetCmd.Flags().String("inhale", "", "inhale cue")
	anchorSetCmd.Flags().String("exhale", "", "exhale cue")
	anchorCmd.AddCommand(anchorSetCmd)
	anchorCmd.AddCommand(anchorShowCmd)
	anchorCmd.AddCommand(anchorClearCmd)
	anchorCmd.AddCommand(anchorFallbackCmd)

	rootCmd.AddCommand(widgetCmd)
	widgetTimelineCmd.Flags().Bool("placeholder", false, "print the placeholder entry instead")
	widgetCmd.AddCommand(widgetTimelineCmd)

	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyPlanCmd)

	rootCmd.AddCommand(packsCmd)
	packsCmd.AddCommand(packsListCmd)
	packsCmd.AddCommand(packsShowCmd)
	packsCmd.AddCommand(packsPlansCmd)
}
